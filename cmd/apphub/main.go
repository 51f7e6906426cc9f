package main

import (
	"github.com/Paintersrp/apphub/internal/cli"
	"github.com/Paintersrp/apphub/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
