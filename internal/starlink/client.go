// Package starlink talks to a Starlink dish over its local gRPC
// endpoint.
//
// The dish API publishes no proto files, but it does serve gRPC
// reflection, so the client resolves the SpaceX.API.Device.Device
// service at runtime and drives it with dynamic messages. Everything is
// best-effort: no dish on the network is the common case and surfaces as
// a fast dial error, not a hang.
package starlink

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection/grpc_reflection_v1alpha"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const deviceService = "SpaceX.API.Device.Device"

// Client holds one gRPC connection to a dish.
type Client struct {
	endpoint   string
	conn       *grpc.ClientConn
	reflClient grpc_reflection_v1alpha.ServerReflectionClient
	log        zerolog.Logger
}

// Dial connects to the dish endpoint. A plain TCP probe runs first so an
// absent dish fails in DialTimeout instead of stalling the first RPC.
func Dial(endpoint string, log zerolog.Logger) (*Client, error) {
	tcpConn, err := net.DialTimeout("tcp", endpoint, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dish not reachable at %s: %w", endpoint, err)
	}
	tcpConn.Close()

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc client for %s: %w", endpoint, err)
	}

	log.Debug().Str("endpoint", endpoint).Msg("connected to dish")
	return &Client{
		endpoint:   endpoint,
		conn:       conn,
		reflClient: grpc_reflection_v1alpha.NewServerReflectionClient(conn),
		log:        log,
	}, nil
}

func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// GetStatus issues a get_status request and maps the dynamic response
// onto Status.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	svc, err := c.resolveService(reqCtx, deviceService)
	if err != nil {
		return nil, fmt.Errorf("resolve device service: %w", err)
	}

	handle := svc.Methods().ByName("Handle")
	if handle == nil {
		return nil, fmt.Errorf("service %s has no Handle method", deviceService)
	}

	reqDesc := handle.Input()
	getStatusField := reqDesc.Fields().ByName("get_status")
	if getStatusField == nil {
		return nil, fmt.Errorf("request message has no get_status field")
	}

	req := dynamicpb.NewMessage(reqDesc)
	req.Set(getStatusField, protoreflect.ValueOfMessage(dynamicpb.NewMessage(getStatusField.Message())))

	resp := dynamicpb.NewMessage(handle.Output())
	if err := c.conn.Invoke(reqCtx, "/SpaceX.API.Device.Device/Handle", req, resp); err != nil {
		return nil, fmt.Errorf("get_status: %w", err)
	}

	status, err := parseStatus(resp)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("software", status.SoftwareVersion).Int64("uptime_s", status.UptimeS).Msg("dish status")
	return status, nil
}

// resolveService fetches the file descriptors containing serviceName via
// server reflection and returns its descriptor.
func (c *Client) resolveService(ctx context.Context, serviceName string) (protoreflect.ServiceDescriptor, error) {
	stream, err := c.reflClient.ServerReflectionInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("reflection stream: %w", err)
	}
	defer stream.CloseSend()

	err = stream.Send(&grpc_reflection_v1alpha.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1alpha.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: serviceName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reflection request: %w", err)
	}

	resp, err := stream.Recv()
	if err != nil {
		return nil, fmt.Errorf("reflection response: %w", err)
	}

	fdResp, ok := resp.MessageResponse.(*grpc_reflection_v1alpha.ServerReflectionResponse_FileDescriptorResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected reflection response type %T", resp.MessageResponse)
	}

	var fileProtos []*descriptorpb.FileDescriptorProto
	for _, fdBytes := range fdResp.FileDescriptorResponse.FileDescriptorProto {
		fd := &descriptorpb.FileDescriptorProto{}
		if err := proto.Unmarshal(fdBytes, fd); err != nil {
			return nil, fmt.Errorf("unmarshal file descriptor: %w", err)
		}
		fileProtos = append(fileProtos, fd)
	}
	if len(fileProtos) == 0 {
		return nil, fmt.Errorf("reflection returned no file descriptors")
	}

	files, err := protodesc.NewFiles(&descriptorpb.FileDescriptorSet{File: fileProtos})
	if err != nil {
		return nil, fmt.Errorf("build descriptor set: %w", err)
	}

	for _, fp := range fileProtos {
		fd, err := files.FindFileByPath(fp.GetName())
		if err != nil {
			continue
		}
		services := fd.Services()
		for i := 0; i < services.Len(); i++ {
			if svc := services.Get(i); string(svc.FullName()) == serviceName {
				return svc, nil
			}
		}
	}

	return nil, fmt.Errorf("service %s not found in reflection data", serviceName)
}

// parseStatus walks the dynamic response by field name. Fields the dish
// firmware does not report are left at their zero value.
func parseStatus(resp protoreflect.Message) (*Status, error) {
	fields := resp.Descriptor().Fields()
	statusField := fields.ByName("dish_get_status")
	if statusField == nil || !resp.Has(statusField) {
		return nil, fmt.Errorf("response carries no dish_get_status")
	}

	msg := resp.Get(statusField).Message()
	status := &Status{}

	if dev := subMessage(msg, "device_info"); dev != nil {
		status.ID = stringField(dev, "id")
		status.HardwareVersion = stringField(dev, "hardware_version")
		status.SoftwareVersion = stringField(dev, "software_version")
	}
	if state := subMessage(msg, "device_state"); state != nil {
		status.UptimeS = intField(state, "uptime_s")
	}
	status.PopPingLatencyMs = floatField(msg, "pop_ping_latency_ms")
	status.DownlinkThroughputBps = floatField(msg, "downlink_throughput_bps")
	status.UplinkThroughputBps = floatField(msg, "uplink_throughput_bps")
	if obs := subMessage(msg, "obstruction_stats"); obs != nil {
		status.FractionObstructed = floatField(obs, "fraction_obstructed")
		status.CurrentlyObstructed = boolField(obs, "currently_obstructed")
	}

	return status, nil
}

func subMessage(msg protoreflect.Message, name protoreflect.Name) protoreflect.Message {
	f := msg.Descriptor().Fields().ByName(name)
	if f == nil || !msg.Has(f) {
		return nil
	}
	return msg.Get(f).Message()
}

func stringField(msg protoreflect.Message, name protoreflect.Name) string {
	if f := msg.Descriptor().Fields().ByName(name); f != nil && msg.Has(f) {
		return msg.Get(f).String()
	}
	return ""
}

func intField(msg protoreflect.Message, name protoreflect.Name) int64 {
	f := msg.Descriptor().Fields().ByName(name)
	if f == nil || !msg.Has(f) {
		return 0
	}
	// The dish API mixes signed and unsigned counters.
	switch f.Kind() {
	case protoreflect.Uint32Kind, protoreflect.Uint64Kind, protoreflect.Fixed32Kind, protoreflect.Fixed64Kind:
		return int64(msg.Get(f).Uint())
	default:
		return msg.Get(f).Int()
	}
}

func floatField(msg protoreflect.Message, name protoreflect.Name) float64 {
	if f := msg.Descriptor().Fields().ByName(name); f != nil && msg.Has(f) {
		return msg.Get(f).Float()
	}
	return 0
}

func boolField(msg protoreflect.Message, name protoreflect.Name) bool {
	if f := msg.Descriptor().Fields().ByName(name); f != nil && msg.Has(f) {
		return msg.Get(f).Bool()
	}
	return false
}
