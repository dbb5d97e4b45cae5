package metrics

/*
Labels and so on for metrics used in statwatch.
*/

const (
	Namespace = "statwatch"

	LabelPath    = "path"
	LabelSource  = "source"
	LabelStage   = "stage"
	LabelSuccess = "success"

	// Stages of a cycle
	StageFetch  = "fetch"
	StageReport = "report"
)
