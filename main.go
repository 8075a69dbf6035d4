package main

import "github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/cmd"

func main() {
	cmd.Execute()
}
