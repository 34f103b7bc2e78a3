package main

import (
	"flag"

	"github.com/etnz/fiscal/cmd"
	"github.com/etnz/fiscal/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the fsc command line for shell completion.
//
// Install it with:
//
//	$ COMP_INSTALL=1 fsc
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(flag.CommandLine),
	}
	for _, cmds := range cmd.Commands() {
		for _, c := range cmds {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			root.Sub[c.Name()] = &complete.Command{Flags: predictFlags(f)}
		}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

// predictFlags predicts the values of every flag of f.
func predictFlags(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		flags[fl.Name] = predictValue(fl)
	})
	return flags
}

func predictValue(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch fl.Name {
	case "transactions", "o":
		return predict.Files("*.jsonl")
	case "fiscal-config":
		return predict.Or(predict.Files("*.yaml"), predict.Files("*.yml"), predict.Files("*.json"))
	case "period":
		return predict.Set{"day", "week", "month", "quarter", "year"}
	case "method":
		return predict.Set{"cumulative", "annualized"}
	case "export":
		return predict.Set{"yaml", "json"}
	case "type":
		return predict.Set{"income", "expense", "transfer"}
	}
	return predict.Something
}
