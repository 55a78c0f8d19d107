package term

import (
	"github.com/fatih/color"

	"github.com/envrun/envrun/pkg/storage"
)

var (
	GreenHighlight  = color.New(color.FgGreen).SprintFunc()
	RedHighlight    = color.New(color.FgRed).SprintFunc()
	YellowHighlight = color.New(color.FgYellow).SprintFunc()

	MagentaHighlight = color.New(color.FgMagenta).SprintFunc()

	Underline = color.New(color.Underline).SprintFunc()

	Highlight = MagentaHighlight
)

func ColoredResult(result storage.Result) string {
	switch result {
	case storage.ResultSuccess:
		return GreenHighlight(string(result))
	case storage.ResultFailure:
		return RedHighlight(string(result))
	case storage.ResultSkipped:
		return YellowHighlight(string(result))
	default:
		return string(result)
	}
}
