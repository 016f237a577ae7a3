package cli

import (
	"context"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/config"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probes"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Privacy is the detect command's output. Inactive sources are empty.
type Privacy struct {
	Microphone  string `json:"microphone"`
	Camera      string `json:"camera"`
	Location    string `json:"location"`
	ScreenShare string `json:"screenshare"`
}

func newDetectCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Print which apps use the microphone, camera, location or screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger := g.stderrLogger(cmd.ErrOrStderr())
			p, err := Detect(commandContext(cmd), cfg, sysexec.New(), logger)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}

// Detect polls the privacy probes once, concurrently, regardless of whether
// they are enabled for the dashboard.
func Detect(ctx context.Context, cfg *config.Config, run sysexec.Runner, logger *slog.Logger) (*Privacy, error) {
	pc := cfg.Probes
	namer := probes.NewProcNames(run)
	once := time.Hour

	reg := probe.NewRegistry()
	for _, p := range []probe.Probe{
		probes.NewCamera(run, namer, pc.Camera.DeviceDir, once),
		probes.NewLocation(run, namer, pc.Location.Process, once),
		probes.NewMedia(run, pc.Media.ScreenShareMatch, once),
	} {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}

	fields := []string{state.FieldMicrophone, state.FieldCamera, state.FieldLocation, state.FieldScreenShare}
	st := state.New(fields...)
	sched := probe.NewScheduler(reg, st,
		probe.WithLogger(logger),
		probe.WithTimeout(cfg.General.ProbeTimeout.Duration),
	)
	if err := sched.Prime(ctx, reg.List()...); err != nil {
		return nil, err
	}

	snap := st.Snapshot()
	text := func(f string) string {
		if v := snap.Get(f); v.Status == state.Ready {
			return v.Text
		}
		return ""
	}
	return &Privacy{
		Microphone:  text(state.FieldMicrophone),
		Camera:      text(state.FieldCamera),
		Location:    text(state.FieldLocation),
		ScreenShare: text(state.FieldScreenShare),
	}, nil
}
