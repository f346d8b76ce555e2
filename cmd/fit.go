package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gospline/BSpline"
	"github.com/notargets/gospline/DataTable"
	"github.com/notargets/gospline/InputParameters"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// FitCmd represents the fit command
var FitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a B-spline surface to a complete grid of samples",
	Long: `
Reads samples from a whitespace separated file with one "x1 ... xn y"
line per sample, fits a tensor-product B-spline surface with free knot
vectors and saves it.

gospline fit -d samples.dat -o surface.bspline`,
	Run: func(cmd *cobra.Command, args []string) {
		fp := &InputParameters.FitParameters{}
		if input, _ := cmd.Flags().GetString("input"); input != "" {
			data, err := os.ReadFile(input)
			if err == nil {
				err = fp.Parse(data)
			}
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		if dataFile, _ := cmd.Flags().GetString("data"); dataFile != "" {
			fp.DataFile = dataFile
		}
		if st, _ := cmd.Flags().GetString("type"); st != "" {
			fp.SplineType = st
		}
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			fp.Output = output
		}
		if refine, _ := cmd.Flags().GetBool("refine"); refine {
			fp.Refine = true
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		fp.Print()
		RunFit(fp)
	},
}

func init() {
	rootCmd.AddCommand(FitCmd)
	FitCmd.Flags().StringP("input", "i", "", "yaml file with fit parameters")
	FitCmd.Flags().StringP("data", "d", "", "sample data file")
	FitCmd.Flags().StringP("type", "t", "cubic", "spline type: linear, quadratic or cubic")
	FitCmd.Flags().StringP("output", "o", "surface.bspline", "output file for the fitted surface")
	FitCmd.Flags().Bool("refine", false, "refine knot vectors after the fit")
	FitCmd.Flags().Bool("profile", false, "write a CPU profile of the fit")
}

func RunFit(fp *InputParameters.FitParameters) {
	samples, err := ReadSamples(fp.DataFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	s, err := BSpline.NewSplineFit(samples, splineType(fp.SplineType))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if fp.Refine {
		if err = s.RefineKnots(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	if err = s.Save(fp.Output); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("fitted %d samples in %d variables, %d basis functions -> %s\n",
		samples.NumSamples(), samples.NumVariables(), s.NumBasisFunctions(), fp.Output)
}

func splineType(name string) BSpline.SplineType {
	switch strings.ToLower(name) {
	case "linear":
		return BSpline.Linear
	case "quadratic":
		return BSpline.QuadraticFree
	default:
		return BSpline.CubicFree
	}
}

// ReadSamples parses a whitespace separated sample file, one
// "x1 ... xn y" per line, '#' comments allowed.
func ReadSamples(fileName string) (samples *DataTable.Table, err error) {
	var f *os.File
	if f, err = os.Open(fileName); err != nil {
		return
	}
	defer f.Close()

	samples = DataTable.New()
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			err = fmt.Errorf("line %d: need at least one coordinate and a value", lineNum)
			return nil, err
		}
		vals := make([]float64, len(fields))
		for i, field := range fields {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				err = fmt.Errorf("line %d: bad numeric token %q", lineNum, field)
				return nil, err
			}
		}
		if err = samples.AddSample(vals[:len(vals)-1], vals[len(vals)-1]); err != nil {
			err = fmt.Errorf("line %d: %v", lineNum, err)
			return nil, err
		}
	}
	err = scanner.Err()
	return
}
