package main

import "github.com/Atanycosts/LLM-Council-Plus-new-api/cmd"

func main() {
	cmd.Execute()
}
