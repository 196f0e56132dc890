package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
