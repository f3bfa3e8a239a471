// Command unclude removes unused #include directives from a C/C++
// translation unit and propagates removed includes into dependent files.
package main

import "github.com/wrenger/unclude/cmd"

func main() {
	cmd.Execute()
}
