// Command staghorn renders a template file against JSON data.
//
// Usage:
//
//	staghorn -t page.html [-d data.json] [-o out.html]
//
// Partials referenced by the template load relative to its directory.  The
// JSON document decodes to a map and is read through the content adapter.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/staghorn/staghorn"
)

func main() {
	var (
		tplPath  = flag.String("t", "", "template file to render (required)")
		dataPath = flag.String("d", "", "JSON file with the data to render against")
		outPath  = flag.String("o", "", "output file (default stdout)")
	)
	flag.Parse()

	if *tplPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	tpl, err := staghorn.FromFile(*tplPath)
	if err != nil {
		fatal(err)
	}

	var data map[string]interface{}
	if *dataPath != "" {
		raw, err := os.ReadFile(*dataPath)
		if err != nil {
			fatal(err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			fatal(fmt.Errorf("%s: %v", *dataPath, err))
		}
	}

	if *outPath != "" {
		if err := tpl.RenderToFile(*outPath, data); err != nil {
			fatal(err)
		}
		return
	}
	if err := tpl.RenderToWriter(os.Stdout, data); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "staghorn:", err)
	os.Exit(1)
}
