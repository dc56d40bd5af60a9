// Command eventoz runs the event registration and attendance API.
package main

import "github.com/Shivanand-hulikatti/eventoz/cmd/eventoz/cmd"

func main() {
	cmd.Execute()
}
