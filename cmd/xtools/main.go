/*
Copyright © 2025 hellototoro
*/
package main

import "github.com/hellototoro/xtools/cmd"

func main() {
	cmd.Execute()
}
