package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gospline/BSpline"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// EvalCmd represents the eval command
var EvalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a saved B-spline surface at a point",
	Long: `
Loads a saved surface and evaluates its value at a point, optionally
with the Jacobian and Hessian.

gospline eval -s surface.bspline -p 0.5,1.25 --jacobian`,
	Run: func(cmd *cobra.Command, args []string) {
		surfaceFile, _ := cmd.Flags().GetString("surface")
		pointStr, _ := cmd.Flags().GetString("point")
		withJacobian, _ := cmd.Flags().GetBool("jacobian")
		withHessian, _ := cmd.Flags().GetBool("hessian")

		s, err := BSpline.Load(surfaceFile)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		x, err := ParseFloatList(pointStr)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		y, err := s.Eval(x)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("f(%v) = %v\n", x, y)
		if withJacobian {
			J, err := s.EvalJacobian(x)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Printf("J = %v\n", mat.Formatted(J, mat.Squeeze()))
		}
		if withHessian {
			H, err := s.EvalHessian(x)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Printf("H =\n%v\n", mat.Formatted(H, mat.Squeeze()))
		}
	},
}

func init() {
	rootCmd.AddCommand(EvalCmd)
	EvalCmd.Flags().StringP("surface", "s", "surface.bspline", "saved surface file")
	EvalCmd.Flags().StringP("point", "p", "", "evaluation point, comma separated")
	EvalCmd.Flags().Bool("jacobian", false, "also print the Jacobian")
	EvalCmd.Flags().Bool("hessian", false, "also print the Hessian")
}

func ParseFloatList(s string) (vals []float64, err error) {
	if s == "" {
		err = fmt.Errorf("empty value list")
		return
	}
	parts := strings.Split(s, ",")
	vals = make([]float64, len(parts))
	for i, part := range parts {
		if vals[i], err = strconv.ParseFloat(strings.TrimSpace(part), 64); err != nil {
			err = fmt.Errorf("bad numeric token %q", part)
			return nil, err
		}
	}
	return
}
