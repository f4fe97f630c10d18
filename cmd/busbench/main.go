// Command busbench runs the bus-driver verification scenarios against the
// behavioral peripheral models and exits nonzero when any check fails.
package main

func main() {
	Execute()
}
