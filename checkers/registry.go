package checkers

import (
	"github.com/asennott/netdiag/checkers/dnsdiag"
	"github.com/asennott/netdiag/checkers/external"
	"github.com/asennott/netdiag/checkers/gatewayid"
	"github.com/asennott/netdiag/checkers/ipv6"
	"github.com/asennott/netdiag/checkers/mdns"
	"github.com/asennott/netdiag/checkers/routes"
	"github.com/asennott/netdiag/checkers/starlink"
	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
)

func AllCheckers() []checker.Checker {
	return []checker.Checker{
		routes.NewRoutesChecker(),
		dnsdiag.NewDNSChecker(),
		external.NewExternalChecker(),
		ipv6.NewIPv6Checker(),
		mdns.NewMDNSChecker(),
		gatewayid.NewGatewayIDChecker(),
		starlink.NewStarlinkChecker(),
	}
}

// Flags describes the CLI flag each checker sits behind, in registry
// order.
func Flags() []checker.CheckFlag {
	all := AllCheckers()
	flags := make([]checker.CheckFlag, 0, len(all))
	for _, c := range all {
		flags = append(flags, checker.CheckFlag{
			Name:            c.Name(),
			Description:     c.Description(),
			Icon:            c.Icon(),
			Checker:         c,
			RequiresGateway: c.RequiresGateway(),
			DefaultEnabled:  c.DefaultEnabled(),
		})
	}
	return flags
}

func GetChecker(name string) checker.Checker {
	for _, c := range AllCheckers() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// RunChecker runs one checker with its default config, unless the run
// context carries an override for it. Gateway-dependent checkers are
// skipped when discovery came up empty.
func RunChecker(c checker.Checker, rc *runner.RunContext, out output.Output) {
	if c.RequiresGateway() && !rc.HasGateway() {
		out.Warning("%s requires a gateway; skipping", c.Name())
		return
	}

	cfg := c.DefaultConfig()
	if override, ok := rc.GetCheckerConfig(c.Name()); ok {
		cfg = override
	}
	c.Run(rc, cfg, out)
}
