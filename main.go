package main

import (
	"fmt"
	"os"

	"jaehyun/sms-ledger/cmd/categorize"
	"jaehyun/sms-ledger/cmd/importer"
	"jaehyun/sms-ledger/cmd/parse"
	"jaehyun/sms-ledger/cmd/root"
	"jaehyun/sms-ledger/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(importer.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
