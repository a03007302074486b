package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"go.viam.com/anchorfix/anchorfix"
)

type progressSpinner interface {
	Stop() error
	Success(...any)
	Fail(...any)
	UpdateText(string)
}

type progressSpinnerFactory func(out io.Writer, text string) (progressSpinner, error)

var defaultSpinnerFactory progressSpinnerFactory = func(out io.Writer, text string) (progressSpinner, error) {
	spinner, err := pterm.DefaultSpinner.
		WithRemoveWhenDone(false).
		WithWriter(out).
		WithText(text).
		Start()
	if err != nil {
		return nil, err
	}
	return spinner, nil
}

// StepStatus represents the state of a progress step.
type StepStatus int

const (
	// StepPending indicates a step has not yet started.
	StepPending StepStatus = iota
	// StepRunning indicates a step is currently in progress.
	StepRunning
	// StepCompleted indicates a step finished successfully.
	StepCompleted
	// StepFailed indicates a step encountered an error.
	StepFailed
)

// Step represents a single progress step.
type Step struct {
	ID           string
	Message      string
	Status       StepStatus
	CompletedMsg string // Optional: Custom message when completed
	FailedMsg    string // Optional: Custom message when failed
	IndentLevel  int    // 0 = root, 1 = child (→), 2 = nested child, etc.
	startTime    time.Time
}

// ProgressManager manages a sequence of steps with spinners (sequential display).
type ProgressManager struct {
	steps          []*Step
	stepMap        map[string]*Step
	currentSpinner progressSpinner // Active child spinner (IndentLevel > 0)
	spinnerFactory progressSpinnerFactory
	out            io.Writer
	mu             sync.Mutex
	disabled       bool
}

// ProgressManagerOption allows customizing ProgressManager behavior at creation time.
type ProgressManagerOption func(*ProgressManager)

// WithProgressOutput enables or disables terminal output for a ProgressManager.
func WithProgressOutput(enabled bool) ProgressManagerOption {
	return func(pm *ProgressManager) {
		pm.disabled = !enabled
	}
}

// WithProgressWriter sends progress output to out instead of stdout.
func WithProgressWriter(out io.Writer) ProgressManagerOption {
	return func(pm *ProgressManager) {
		pm.out = out
	}
}

func withProgressSpinnerFactory(factory progressSpinnerFactory) ProgressManagerOption {
	return func(pm *ProgressManager) {
		pm.spinnerFactory = factory
	}
}

// NewProgressManager creates a new ProgressManager with all steps registered upfront.
func NewProgressManager(steps []*Step, opts ...ProgressManagerOption) *ProgressManager {
	pterm.Success.Prefix = pterm.Prefix{
		Text:  "✓",
		Style: pterm.NewStyle(pterm.FgGreen),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "✗",
		Style: pterm.NewStyle(pterm.FgRed),
	}
	// Add a leading space to each spinner sequence character for alignment
	baseSequence := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerSequence := make([]string, len(baseSequence))
	for i, char := range baseSequence {
		spinnerSequence[i] = " " + char
	}
	pterm.DefaultSpinner.Sequence = spinnerSequence
	pterm.DefaultSpinner.Style = pterm.NewStyle(pterm.FgCyan)

	stepMap := make(map[string]*Step)
	for _, step := range steps {
		stepMap[step.ID] = step
	}

	pm := &ProgressManager{
		steps:          steps,
		stepMap:        stepMap,
		spinnerFactory: defaultSpinnerFactory,
		out:            os.Stdout,
	}

	for _, opt := range opts {
		opt(pm)
	}

	return pm
}

// getPrefix returns the formatted prefix for a step based on its indent level.
func getPrefix(step *Step) string {
	prefix := strings.Repeat("  ", step.IndentLevel)
	if step.IndentLevel > 0 {
		prefix += "→ "
	}
	return prefix
}

func (pm *ProgressManager) lookup(stepID string) (*Step, error) {
	step, exists := pm.stepMap[stepID]
	if !exists {
		return nil, fmt.Errorf("step %q not found", stepID)
	}
	return step, nil
}

// Start begins animating the spinner for the given step ID.
func (pm *ProgressManager) Start(stepID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, err := pm.lookup(stepID)
	if err != nil {
		return err
	}

	step.Status = StepRunning
	step.startTime = time.Now()

	if pm.disabled {
		return nil
	}

	// Parent steps print a "…" line instead of spinning
	if step.IndentLevel == 0 {
		fmt.Fprintf(pm.out, " …  %s\n", step.Message) //nolint:errcheck
		return nil
	}

	if pm.currentSpinner != nil {
		_ = pm.currentSpinner.Stop() //nolint:errcheck
	}

	// pterm adds a space after the spinner character, so child prefixes get one more
	adjustedPrefix := strings.Repeat("  ", step.IndentLevel) + "  → "

	spinner, err := pm.spinnerFactory(pm.out, adjustedPrefix+step.Message)
	if err != nil {
		return fmt.Errorf("failed to start child spinner: %w", err)
	}

	pm.currentSpinner = spinner

	return nil
}

func elapsedSince(start time.Time) string {
	if start.IsZero() {
		return ""
	}
	return fmt.Sprintf(" (%s)", time.Since(start).Round(time.Millisecond))
}

// Complete marks a step as completed with its success message.
func (pm *ProgressManager) Complete(stepID string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, err := pm.lookup(stepID)
	if err != nil {
		return err
	}
	msg := step.CompletedMsg
	if msg == "" {
		msg = step.Message
	}
	pm.completeLocked(step, msg)
	return nil
}

// CompleteWithMessage marks a step as completed with a custom message.
func (pm *ProgressManager) CompleteWithMessage(stepID, message string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, err := pm.lookup(stepID)
	if err != nil {
		return err
	}
	pm.completeLocked(step, message)
	return nil
}

// completeLocked assumes the lock is already held by the caller.
func (pm *ProgressManager) completeLocked(step *Step, message string) {
	step.Status = StepCompleted

	if pm.disabled {
		return
	}

	line := message + elapsedSince(step.startTime)
	if step.IndentLevel > 0 {
		line = " " + getPrefix(step) + line
	}

	if pm.currentSpinner != nil {
		pm.currentSpinner.Success(line)
		pm.currentSpinner = nil
		return
	}
	pterm.Success.WithWriter(pm.out).Println(line)
}

// Fail marks a step as failed with an error message.
func (pm *ProgressManager) Fail(stepID string, err error) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, lookupErr := pm.lookup(stepID)
	if lookupErr != nil {
		return lookupErr
	}

	msg := step.FailedMsg
	if msg == "" {
		msg = fmt.Sprintf("%s: %v", step.Message, err)
	}

	pm.failWithMessageLocked(step, msg)
	return nil
}

// failWithMessageLocked assumes the lock is already held by the caller.
func (pm *ProgressManager) failWithMessageLocked(step *Step, message string) {
	step.Status = StepFailed

	if pm.disabled {
		return
	}

	line := message
	if step.IndentLevel > 0 {
		line = " " + getPrefix(step) + line
	}

	if pm.currentSpinner != nil {
		pm.currentSpinner.Fail(line)
		pm.currentSpinner = nil
		return
	}
	pterm.Error.WithWriter(pm.out).Println(line)
}

// UpdateText updates the text of the currently active spinner (for progress updates).
func (pm *ProgressManager) UpdateText(text string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.disabled {
		return
	}

	if pm.currentSpinner != nil {
		pm.currentSpinner.UpdateText(text)
	}
}

// Stop stops any active spinner.
func (pm *ProgressManager) Stop() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.disabled {
		return
	}

	if pm.currentSpinner != nil {
		_ = pm.currentSpinner.Stop() //nolint:errcheck
		pm.currentSpinner = nil
	}
}

// Status returns the status of a step.
func (pm *ProgressManager) Status(stepID string) StepStatus {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if step, ok := pm.stepMap[stepID]; ok {
		return step.Status
	}
	return StepPending
}

// fixSteps are the steps of one anchor fix. Phase steps are keyed by anchorfix.Phase names.
func fixSteps(subject, anchor string) []*Step {
	return []*Step{
		{ID: "fix", Message: fmt.Sprintf("Fixing %q to %q", subject, anchor), IndentLevel: 0},
		{ID: anchorfix.PhaseValidate.String(), Message: "Checking configuration...", CompletedMsg: "Configuration OK", IndentLevel: 1},
		{ID: anchorfix.PhaseSample.String(), Message: "Sampling frames...", IndentLevel: 1},
		{ID: anchorfix.PhaseCorrect.String(), Message: "Correcting frames...", IndentLevel: 1},
		{ID: anchorfix.PhaseRestore.String(), Message: "Restoring clock...", CompletedMsg: "Clock restored", IndentLevel: 1},
	}
}

// progressObserver shows the phases of a run as progress steps.
type progressObserver struct {
	pm     *ProgressManager
	frames int
	done   int
}

func newProgressObserver(pm *ProgressManager) *progressObserver {
	return &progressObserver{pm: pm}
}

func (o *progressObserver) PhaseStarted(phase anchorfix.Phase, frames int) {
	o.frames = frames
	o.done = 0
	_ = o.pm.Start(phase.String()) //nolint:errcheck
}

func (o *progressObserver) FrameDone(phase anchorfix.Phase, frame int) {
	o.done++
	o.pm.UpdateText(fmt.Sprintf("    → %s frame %d (%d/%d)", phase, frame, o.done, o.frames))
}

func (o *progressObserver) PhaseFinished(phase anchorfix.Phase, err error) {
	if err != nil {
		_ = o.pm.Fail(phase.String(), err) //nolint:errcheck
		return
	}
	switch phase {
	case anchorfix.PhaseSample:
		_ = o.pm.CompleteWithMessage(phase.String(), fmt.Sprintf("Sampled %d frames", o.done)) //nolint:errcheck
	case anchorfix.PhaseCorrect:
		_ = o.pm.CompleteWithMessage(phase.String(), fmt.Sprintf("Keyed %d frames", o.done)) //nolint:errcheck
	case anchorfix.PhaseValidate, anchorfix.PhaseRestore:
		_ = o.pm.Complete(phase.String()) //nolint:errcheck
	}
}
