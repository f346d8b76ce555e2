package cmd

import (
	"fmt"
	"os"

	"github.com/notargets/gospline/BSpline"
	"github.com/spf13/cobra"
)

// ReduceCmd represents the reduce command
var ReduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Reduce the domain of a saved B-spline surface",
	Long: `
Loads a saved surface, restricts it to the given bounding box without
changing the represented function over the retained region, and saves
the result.

gospline reduce -s surface.bspline --lb 0,0 --ub 1,1 -o reduced.bspline`,
	Run: func(cmd *cobra.Command, args []string) {
		surfaceFile, _ := cmd.Flags().GetString("surface")
		output, _ := cmd.Flags().GetString("output")
		lbStr, _ := cmd.Flags().GetString("lb")
		ubStr, _ := cmd.Flags().GetString("ub")
		regularize, _ := cmd.Flags().GetBool("regularize")
		refine, _ := cmd.Flags().GetBool("refine")

		s, err := BSpline.Load(surfaceFile)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		lb, err := ParseFloatList(lbStr)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		ub, err := ParseFloatList(ubStr)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err = s.ReduceDomain(lb, ub, regularize, refine); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err = s.Save(output); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("reduced domain to [%v, %v], %d basis functions -> %s\n",
			lb, ub, s.NumBasisFunctions(), output)
	},
}

func init() {
	rootCmd.AddCommand(ReduceCmd)
	ReduceCmd.Flags().StringP("surface", "s", "surface.bspline", "saved surface file")
	ReduceCmd.Flags().StringP("output", "o", "reduced.bspline", "output file for the reduced surface")
	ReduceCmd.Flags().String("lb", "", "new lower bounds, comma separated")
	ReduceCmd.Flags().String("ub", "", "new upper bounds, comma separated")
	ReduceCmd.Flags().Bool("regularize", true, "regularize knot vectors at the new bounds first")
	ReduceCmd.Flags().Bool("refine", false, "refine knot vectors after the reduction")
}
