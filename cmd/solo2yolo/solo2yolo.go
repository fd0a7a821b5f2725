package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/solo2yolo/pkg/convert"
	"github.com/cyclopcam/solo2yolo/pkg/yolo"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("solo2yolo", "Convert a SOLO dataset to YOLO format")
	input := parser.String("i", "input", &argparse.Options{Help: "Root directory of the SOLO dataset (absolute path)"})
	output := parser.String("o", "output", &argparse.Options{Help: "Directory that receives the new yolo, yolo_1, ... dataset (absolute path)"})
	task := parser.String("t", "task", &argparse.Options{Help: "Computer vision task. One of " + strings.Join(yolo.TaskNames, ", ")})
	configFile := parser.String("c", "config", &argparse.Options{Help: "JSON file with default options. Command line flags take precedence."})
	journalFile := parser.String("", "journal", &argparse.Options{Help: "Record this run and its skipped frames in a sqlite database"})
	verifyImages := parser.Flag("", "verify-images", &argparse.Options{Help: "Warn when an image's header disagrees with its capture record"})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	options := convert.Options{}
	if *configFile != "" {
		fromFile, err := convert.LoadOptions(*configFile)
		if err != nil {
			fmt.Print(parser.Usage(err))
			os.Exit(1)
		}
		options = *fromFile
	}
	options.Merge(convert.Options{
		SoloPath:     *input,
		OutputPath:   *output,
		Task:         *task,
		JournalPath:  *journalFile,
		VerifyImages: *verifyImages,
	})

	missing := []string{}
	if options.SoloPath == "" {
		missing = append(missing, "Missing SOLO path for -i flag.")
	}
	if options.OutputPath == "" {
		missing = append(missing, "Missing YOLO path for -o flag.")
	}
	if options.Task == "" {
		missing = append(missing, "Missing task type for -t flag.")
	} else if _, err := yolo.ParseTask(options.Task); err != nil {
		missing = append(missing, fmt.Sprintf("Invalid task type for -t flag: %v", options.Task))
	}
	if len(missing) != 0 {
		fmt.Print(parser.Usage(strings.Join(missing, "\n")))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)
	defer logger.Close()

	res, err := convert.Run(logger, options)
	if err != nil {
		// Already logged
		logger.Close()
		os.Exit(1)
	}
	logger.Infof("Wrote %v image/label pairs to %v (%v frames skipped)", res.FramesConverted, res.Layout.Root, len(res.Skipped))
}
