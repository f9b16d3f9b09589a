package evaluation

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Figure is a rendered diagnostic image. Keeping the bytes instead of a live
// drawing context lets the tracker and the plots directory share one render.
type Figure struct {
	Name string
	PNG  []byte
}

// confusionGrid adapts a 2x2 confusion matrix to the heat map interface.
// Rows are true labels and grow upward, so true=0 sits at the bottom.
type confusionGrid struct {
	cm [2][2]int
}

func (g confusionGrid) Dims() (c, r int)   { return 2, 2 }
func (g confusionGrid) Z(c, r int) float64 { return float64(g.cm[r][c]) }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }

// ConfusionMatrixFigure renders the 2x2 matrix as a heat map with the counts
// drawn on each cell.
func ConfusionMatrixFigure(yTrue, yPred []int) (*Figure, error) {
	cm := ConfusionMatrix(yTrue, yPred)

	p := plot.New()
	p.Title.Text = "Confusion matrix"
	p.X.Label.Text = "predicted"
	p.Y.Label.Text = "true"

	labelTicks := []plot.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}
	p.X.Tick.Marker = plot.ConstantTicks(labelTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(labelTicks)

	heat := plotter.NewHeatMap(confusionGrid{cm: cm}, moreland.SmoothBlueRed().Palette(64))
	p.Add(heat)

	counts := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, 4),
		Labels: make([]string, 0, 4),
	}
	for t := 0; t < 2; t++ {
		for pr := 0; pr < 2; pr++ {
			counts.XYs = append(counts.XYs, plotter.XY{X: float64(pr), Y: float64(t)})
			counts.Labels = append(counts.Labels, fmt.Sprintf("%d", cm[t][pr]))
		}
	}
	labels, err := plotter.NewLabels(counts)
	if err != nil {
		return nil, fmt.Errorf("building cell labels: %w", err)
	}
	p.Add(labels)

	png, err := renderPNG(p)
	if err != nil {
		return nil, err
	}
	return &Figure{Name: "confusion_matrix", PNG: png}, nil
}

// ROCCurveFigure renders the ROC curve with the chance diagonal and the AUC
// in the legend.
func ROCCurveFigure(yTrue []int, scores []float64) (*Figure, error) {
	fpr, tpr, _ := ROCCurve(yTrue, scores)
	auc := ROCAUC(yTrue, scores)

	p := plot.New()
	p.Title.Text = "ROC curve"
	p.X.Label.Text = "false positive rate"
	p.Y.Label.Text = "true positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	curve := make(plotter.XYs, len(fpr))
	for i := range fpr {
		curve[i] = plotter.XY{X: fpr[i], Y: tpr[i]}
	}
	line, err := plotter.NewLine(curve)
	if err != nil {
		return nil, fmt.Errorf("building roc line: %w", err)
	}
	line.Color = color.RGBA{R: 20, G: 80, B: 200, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("model (AUC = %.3f)", auc), line)

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, fmt.Errorf("building chance line: %w", err)
	}
	chance.Color = color.RGBA{R: 120, G: 120, B: 120, A: 180}
	chance.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)
	p.Legend.Add("chance", chance)

	p.Legend.Top = false
	p.Legend.Left = false

	png, err := renderPNG(p)
	if err != nil {
		return nil, err
	}
	return &Figure{Name: "roc_curve", PNG: png}, nil
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(6*vg.Inch, 4.5*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("rendering figure: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("rendering figure: %w", err)
	}
	return buf.Bytes(), nil
}
