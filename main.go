package main

import "gig-profile/cmd"

func main() {
	cmd.Execute()
}
