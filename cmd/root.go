package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "flightscout"}

	root.AddCommand(serveCMD(), searchCMD(), migrateCMD())
	_ = root.Execute()
}
