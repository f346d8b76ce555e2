package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type FitParameters struct {
	Title      string `yaml:"Title"`
	DataFile   string `yaml:"DataFile"`   // Whitespace separated sample file, one "x1 ... xn y" per line
	SplineType string `yaml:"SplineType"` // linear, quadratic or cubic
	Output     string `yaml:"Output"`     // Where the fitted surface is saved
	Refine     bool   `yaml:"Refine"`     // Refine knot vectors after the fit
}

func (fp *FitParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

func (fp *FitParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fp.Title)
	fmt.Printf("[%s]\t\t= DataFile\n", fp.DataFile)
	fmt.Printf("[%s]\t\t= SplineType\n", fp.SplineType)
	fmt.Printf("[%s]\t\t= Output\n", fp.Output)
	fmt.Printf("[%v]\t\t\t= Refine\n", fp.Refine)
}
