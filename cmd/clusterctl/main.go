// Command clusterctl runs scheduler actions from a workstation through the
// same dispatcher the Lambda uses.
package main

import (
	"os"
)

func main() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
