package convert

import "fmt"

// Stage is one step of a conversion run.
type Stage int

const (
	StageLocate Stage = iota + 1
	StageParse
	StageSources
	StageMCU
	StageOptions
	StageLinkerScript
	StageRender
	StageCopy
	StageWrite
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageLocate, StageParse, StageSources, StageMCU, StageOptions,
	StageLinkerScript, StageRender, StageCopy, StageWrite,
}

// String returns a short description of the stage
func (s Stage) String() string {
	switch s {
	case StageLocate:
		return "Locate SW4STM32 project"
	case StageParse:
		return "Parse project files"
	case StageSources:
		return "Classify source files"
	case StageMCU:
		return "Resolve MCU flags"
	case StageOptions:
		return "Extract includes and defines"
	case StageLinkerScript:
		return "Locate linker script"
	case StageRender:
		return "Render Makefile"
	case StageCopy:
		return "Copy linker script"
	case StageWrite:
		return "Write Makefile"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// StageNames returns the descriptions of all stages in order.
func StageNames() []string {
	names := make([]string, len(Stages))
	for i, s := range Stages {
		names[i] = s.String()
	}
	return names
}

// Status is the state a stage is reported in.
type Status int

const (
	StatusRunning Status = iota
	StatusDone
	StatusFailed
	StatusSkipped
)

// Observer is notified as stages start and finish. Detail is a short note
// such as a count or a file name.
type Observer func(stage Stage, status Status, detail string)
