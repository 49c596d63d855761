package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/display"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/typemap"
)

// ResolveCmd shows how a value converts between a host and a foreign type
var ResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show the conversion between a host type and a foreign type",
	Long: `Resolve the conversion chain between a host type and a foreign type in one
direction, following host-to-host conversions and the foreign type's rule.

Examples:
  bindgen resolve --host Point --foreign FPoint
  bindgen resolve --host int64 --foreign jint --direction from_host -vv`,
	RunE: runResolve,
}

var (
	resolveHost      string
	resolveForeign   string
	resolveDirection string
)

func init() {
	ResolveCmd.Flags().StringVar(&resolveHost, "host", "", "Host type expression (e.g. *bytes.Buffer)")
	ResolveCmd.Flags().StringVar(&resolveForeign, "foreign", "", "Foreign type name")
	ResolveCmd.Flags().StringVarP(&resolveDirection, "direction", "d", "into_host", "into_host or from_host")
	_ = ResolveCmd.MarkFlagRequired("host")
	_ = ResolveCmd.MarkFlagRequired("foreign")
}

// ResolveStep is one hop in the JSON form of a resolution
type ResolveStep struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
	Code string `json:"code,omitempty"`
}

// ResolveReport is the JSON form of a resolution
type ResolveReport struct {
	RunID     string        `json:"run_id"`
	Host      string        `json:"host"`
	Foreign   string        `json:"foreign"`
	Direction string        `json:"direction"`
	Boundary  string        `json:"boundary"`
	Steps     []ResolveStep `json:"steps"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	dir, err := typemap.ParseDirection(resolveDirection)
	if err != nil {
		return err
	}

	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	_, name, err := typemap.NormalizeString(resolveHost)
	if err != nil {
		return err
	}
	host, ok := s.tm.Hosts().Lookup(name)
	if !ok {
		return errors.WithHint(errors.NewNotFoundError("host type %s", name),
			"host types come from typemap files and capability discovery; run 'bindgen list --hosts'")
	}
	ft, ok := s.tm.LookupForeign(resolveForeign)
	if !ok {
		return errors.WithHint(errors.NewNotFoundError("foreign type %s", resolveForeign),
			"run 'bindgen list' to see declared foreign types")
	}

	res, err := s.tm.Resolve(host, ft, dir)
	if err != nil {
		return s.fail(err)
	}

	report := ResolveReport{
		RunID:     runID,
		Host:      name,
		Foreign:   resolveForeign,
		Direction: dir.String(),
		Boundary:  s.tm.NodeName(res.Boundary),
		Steps:     []ResolveStep{},
	}
	for _, st := range res.Steps {
		report.Steps = append(report.Steps, ResolveStep{
			From: s.tm.NodeName(st.From),
			To:   s.tm.NodeName(st.To),
			Kind: st.Kind.String(),
			Code: st.Code,
		})
	}

	if jsonOutput(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	if dir == typemap.FromHost {
		fmt.Fprintf(out, "%s -> %s via %s (%d step(s))\n", name, resolveForeign, report.Boundary, len(report.Steps))
	} else {
		fmt.Fprintf(out, "%s -> %s via %s (%d step(s))\n", resolveForeign, name, report.Boundary, len(report.Steps))
	}
	for i, st := range report.Steps {
		showf(cmd, logger.OutputSteps, "  %d. %s -> %s [%s] %s\n", i+1, st.From, st.To, st.Kind, st.Code)
	}
	return nil
}
