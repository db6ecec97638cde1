// soaptrace CLI - reads SOAP traffic captures and resolves their actions
package main

import "github.com/getmockd/soaptrace/pkg/cli"

func main() {
	cli.Execute()
}
