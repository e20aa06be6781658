package main

import "github.com/siddhardha-mns/SIH-SmartHelpDesk/cmd"

func main() {
	cmd.Execute()
}
