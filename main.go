package main

import "github.com/harrisonrobin/auditboard/cmd"

func main() {
	cmd.Execute()
}
