package stats

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "900px"
	chartHeight = "450px"

	marksColor = "#5470c6"
	ktColor    = "#ee6666"
)

// MarksChart builds a bar chart of students bucketed by class of result.
func MarksChart(a Analysis) *charts.Bar {
	bar := newBar("Marks Distribution",
		fmt.Sprintf("%d students, %d passed (%.2f%%)", a.TotalStudents, a.PassedCount, a.PassPercentage))

	bar.SetXAxis([]string{
		"Distinction (>=75%)",
		"First Class (60-74%)",
		"Second Class (50-59%)",
		"Pass Class (40-49%)",
		"Fail",
	})
	bar.AddSeries("Students", barData(
		a.MarksDistribution.Distinction,
		a.MarksDistribution.FirstClass,
		a.MarksDistribution.SecondClass,
		a.MarksDistribution.PassClass,
		a.MarksDistribution.Fail,
	),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: marksColor}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	return bar
}

// KTChart builds a bar chart of students bucketed by carried-subject count.
func KTChart(a Analysis) *charts.Bar {
	bar := newBar("KT Distribution",
		fmt.Sprintf("%d students carrying subjects", a.StudentsWithKT))

	bar.SetXAxis([]string{"No KT", "1 KT", "2 KTs", "3+ KTs"})
	bar.AddSeries("Students", barData(
		a.KTDistribution.NoKT,
		a.KTDistribution.OneKT,
		a.KTDistribution.TwoKT,
		a.KTDistribution.ThreeOrMoreKT,
	),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: ktColor}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	return bar
}

// RenderCharts writes an HTML page containing both distribution charts.
func RenderCharts(w io.Writer, a Analysis, title string) error {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageCenterLayout)
	page.AddCharts(MarksChart(a), KTChart(a))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}

	return nil
}

// WriteChartsFile renders the chart page to an HTML file at path.
func WriteChartsFile(path string, a Analysis, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	return RenderCharts(f, a, title)
}

func newBar(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Students"}),
	)

	return bar
}

func barData(values ...int) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	return data
}
