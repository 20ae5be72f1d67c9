// Command ndnapps runs scenarios of rate-controlled NDN requesters and
// responders.
package main

import "github.com/ndnapps/ndnapps/ndnapps/cmd"

func main() {
	cmd.Execute()
}
