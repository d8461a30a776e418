// Command upload reads an incident export (.xlsx or .json) and writes it to
// Firestore.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go-safetyboard/config"
	"go-safetyboard/db"
	"go-safetyboard/importer"
)

func main() {
	collection := flag.String("collection", "", "target collection (defaults to FIRESTORE_COLLECTION)")
	dryRun := flag.Bool("dry-run", false, "parse and normalize without writing")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: upload [flags] <file.xlsx|file.json>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if *collection == "" {
		*collection = cfg.Collection
	}

	rows, err := importer.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error reading %s: %v", flag.Arg(0), err)
	}
	incidents := importer.Incidents(rows)
	log.Printf("Read %d incidents from %s", len(incidents), flag.Arg(0))

	if *dryRun {
		for _, inc := range incidents {
			log.Printf("%s %s %s/%s", inc.ID, inc.DateTime, inc.ConstructionTypeMain, inc.ConstructionTypeSub)
		}
		return
	}

	ctx := context.Background()
	client, err := db.InitFirestore(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore()

	saved, err := db.NewIncidentStore(client, *collection).SaveIncidents(ctx, incidents)
	if err != nil {
		log.Printf("Upload finished with errors: %v", err)
	}
	log.Printf("Uploaded %d of %d incidents to '%s'", saved, len(incidents), *collection)
	if err != nil {
		db.CloseFirestore()
		os.Exit(1)
	}
}
