// Command menucart is the customer and staff client for the menucart backend.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	if cerr := a.teardown(); cerr != nil {
		fmt.Fprintf(os.Stderr, "failed to close device store: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
