// Package event defines the structural events an execution engine emits
// while running features, and the payloads they carry.
//
// Calls arrive in strict nesting order:
//
//	BeforeFeatures
//	  BeforeFeature
//	    TagName* AfterTags FeatureName
//	    BeforeBackground BackgroundName <step>* AfterBackground
//	    (BeforeFeatureElement TagName* AfterTags ScenarioName <step>*
//	       [BeforeExamplesArray (ExamplesName BeforeOutlineTable <row>* AfterOutlineTable)*]
//	     AfterFeatureElement)*
//	  AfterFeature
//	AfterFeatures
//
// where a step is
//
//	BeforeStep BeforeStepResult StepName
//	  [DocString | BeforeMultilineArg <row>* AfterMultilineArg]
//	  [Exception] AfterStep AfterTestStep
//
// and a row is BeforeTableRow TableCellValue* AfterTableRow.
package event

// Listener receives structural events. Implementations must tolerate
// events that arrive out of the documented order.
type Listener interface {
	BeforeFeatures()
	AfterFeatures()

	BeforeFeature()
	AfterFeature()
	CommentLine(line string)
	TagName(name string)
	AfterTags()
	FeatureName(keyword, name string)

	BeforeBackground()
	BackgroundName(h ElementHeader)
	AfterBackground()

	BeforeFeatureElement()
	ScenarioName(h ElementHeader)
	AfterFeatureElement()

	BeforeExamplesArray()
	ExamplesName(keyword, name string)
	BeforeOutlineTable(t *Table)
	AfterOutlineTable()

	BeforeTestCase()
	BeforeStep()
	BeforeStepResult(r *StepResult)
	StepName(r *StepResult)
	DocString(d *DocString)
	Exception(e *Exception, status Status)
	AfterStep()
	AfterTestStep(r *StepResult)

	BeforeMultilineArg(t *Table)
	AfterMultilineArg()
	BeforeTableRow(row *TableRow)
	TableCellValue(value string, status MaybeStatus)
	AfterTableRow(row *TableRow)

	// Puts records a diagnostic message emitted while a step runs.
	Puts(messages ...string)
}
