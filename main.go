package main

import "github.com/llehouerou/wavesink/internal/cli"

func main() {
	cli.Execute()
}
