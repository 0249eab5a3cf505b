package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/shocksim/internal/gas"
)

func listSpecies(cmd *cobra.Command, args []string) error {
	db := gas.Default()
	if thermoFile != "" {
		loaded, err := gas.LoadDatabase(thermoFile)
		if err != nil {
			return err
		}
		db = loaded
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMOLAR MASS\tT RANGE\tCP/R @ 300K")
	for _, name := range db.Names() {
		sp, _ := db.Lookup(name)
		lo, hi := sp.Ranges[0], sp.Ranges[len(sp.Ranges)-1]
		fmt.Fprintf(w, "%s\t%.4f kg/kmol\t%.0f-%.0f K\t%.4f\n", sp.Name, sp.MolarMass, lo, hi, sp.CpR(300))
	}
	return w.Flush()
}
