// Package main provides the devpolicy CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/born-ml/devpolicy/internal/backend/cpu"
	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/logging"
	"github.com/born-ml/devpolicy/internal/metrics"
	"github.com/born-ml/devpolicy/internal/policy"
	"github.com/prometheus/client_golang/prometheus"
)

const version = "v0.0.1-dev"

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "version":
		fmt.Printf("devpolicy %s\n", version)
	case "devices":
		devices()
	case "demo":
		if err := demo(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "demo: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Println("devpolicy - parallel algorithms on compute devices")
		fmt.Printf("Version: %s\n\n", version)
		fmt.Println("Commands:")
		fmt.Println("  version    Show version")
		fmt.Println("  devices    List compute devices")
		fmt.Println("  demo [-v]  Sort and reduce a sample range on the CPU device")
	}
}

func devices() {
	q := cpu.New()
	defer q.Close()
	printInfo(q.Info())

	for _, info := range gpus() {
		printInfo(info)
	}
}

func printInfo(info device.Info) {
	fmt.Printf("%-8s %s\n", info.Kind, info.Name)
	if info.Vendor != "" {
		fmt.Printf("         vendor:         %s\n", info.Vendor)
	}
	fmt.Printf("         compute units:  %d\n", info.ComputeUnits)
	fmt.Printf("         max local size: %d\n", info.MaxLocalSize)
	if len(info.Features) > 0 {
		fmt.Printf("         features:       %s\n", strings.Join(info.Features, " "))
	}
}

func demo(args []string) error {
	level := slog.LevelInfo
	for _, a := range args {
		if a == "-v" {
			level = slog.LevelDebug
		}
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewPrometheus(reg, "devpolicy")
	if err != nil {
		return err
	}

	q := cpu.New()
	defer q.Close()
	p := policy.New(q,
		policy.WithLogger(logging.NewTextLogger(level).WithDevice(q.Info().Name)),
		policy.WithMetrics(collector),
	)

	for _, data := range [][]int32{
		{3, 1, 4, 1, 5, 9, 2, 6},
		{3, 1, 4, 1, 5, 9, 2},
	} {
		in := fmt.Sprint(data)
		if err := policy.Sort(p, data); err != nil {
			return err
		}
		sum, err := policy.Reduce(p, data)
		if err != nil {
			return err
		}
		fmt.Printf("sort %s = %v, reduce = %d\n", in, data, sum)
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Printf("%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Printf("%s{%s} count=%d\n", mf.GetName(), strings.Join(labels, ","), m.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}
