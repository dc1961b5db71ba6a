package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mycontracts/backend/internal/catalog"
	"github.com/mycontracts/backend/internal/models"
	"github.com/mycontracts/backend/internal/services"
)

// scratchDirName is the directory under the contracts repository where
// per-deployment parameter files are written.
const scratchDirName = ".mycontracts"

// deployScriptCandidates are checked in order inside the contracts
// repository.
var deployScriptCandidates = []string{
	"deploy.py",
	filepath.Join("scripts", "deploy.py"),
	filepath.Join("scripts", "deploy_contract.py"),
	filepath.Join("cli", "deploy.py"),
}

// Runner executes one deployment against the external deploy script and
// drives the record's status transitions. Configuration or availability
// problems end in the simulated state; execution problems end in
// failed. Errors never propagate past Run; every outcome lands on the
// record.
type Runner struct {
	deployments services.DeploymentService
	repoRoot    string
	interpreter string
	timeout     time.Duration
}

// NewRunner creates a Runner over the given contracts repository
// checkout.
func NewRunner(deployments services.DeploymentService, repoRoot, interpreter string, timeout time.Duration) *Runner {
	return &Runner{
		deployments: deployments,
		repoRoot:    repoRoot,
		interpreter: interpreter,
		timeout:     timeout,
	}
}

// Run takes a queued deployment through the state machine. The caller
// cancels ctx to abort an in-flight script; cancellation lands as a
// failed record with a cancellation message. Run only reads the record;
// all state transitions go through the deployment service, so the
// caller may keep serializing its copy while the script executes.
func (r *Runner) Run(ctx context.Context, record *models.ContractDeployment, template catalog.ContractTemplate) {
	if info, err := os.Stat(r.repoRoot); err != nil || !info.IsDir() {
		r.markSimulated(record.ID, fmt.Sprintf(
			"Contracts repository not found. Clone it into %s to run real deployments.", r.repoRoot))
		return
	}

	script, ok := r.findDeployScript()
	if !ok {
		r.markSimulated(record.ID,
			"No deploy.py found inside the contracts repository. Check the repository README.")
		return
	}

	paramsPath, err := r.writeParamsFile(record)
	if err != nil {
		r.markFailed(record.ID, fmt.Sprintf("Could not write parameter file: %v", err))
		return
	}
	defer func() {
		// Best effort; a leftover scratch file is not worth surfacing.
		if err := os.Remove(paramsPath); err != nil && !os.IsNotExist(err) {
			log.Printf("runner: could not remove %s: %v", paramsPath, err)
		}
	}()

	if err := r.deployments.MarkRunning(record.ID, "Executing deployment script"); err != nil {
		log.Printf("runner: could not mark deployment %d running: %v", record.ID, err)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.interpreter, script,
		"--contract", template.Identifier,
		"--network", record.Network,
		"--params", paramsPath,
	)
	cmd.Dir = r.repoRoot
	// Scripts may spawn children that inherit the output pipes; do not
	// wait on those forever once the script itself is gone.
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	switch {
	case err == nil:
		output := strings.TrimSpace(stdout.String())
		txHash := ExtractTransactionHash(output)
		if markErr := r.deployments.MarkSucceeded(record.ID, txHash, output); markErr != nil {
			log.Printf("runner: could not mark deployment %d succeeded: %v", record.ID, markErr)
		}

	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		r.markFailed(record.ID, fmt.Sprintf("Deployment script timed out after %s.", r.timeout))

	case errors.Is(runCtx.Err(), context.Canceled):
		r.markFailed(record.ID, "Deployment cancelled before the script finished.")

	case errors.Is(err, exec.ErrNotFound):
		r.markFailed(record.ID, fmt.Sprintf("Script interpreter %q not found on the deploy host.", r.interpreter))

	default:
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = strings.TrimSpace(stdout.String())
		}
		if message == "" {
			message = "Unknown deployment error."
		}
		r.markFailed(record.ID, message)
	}
}

// findDeployScript returns the first deploy script candidate present in
// the repository, as a path relative to the repository root.
func (r *Runner) findDeployScript() (string, bool) {
	for _, candidate := range deployScriptCandidates {
		if _, err := os.Stat(filepath.Join(r.repoRoot, candidate)); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// writeParamsFile materializes the constructor arguments and funding
// wallet for the deploy script. The name is derived from the record ID
// (or a random token for unsaved records) so concurrent deployments
// never collide.
func (r *Runner) writeParamsFile(record *models.ContractDeployment) (string, error) {
	dir := filepath.Join(r.repoRoot, scratchDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	token := fmt.Sprintf("%d", record.ID)
	if record.ID == 0 {
		token = strings.ReplaceAll(uuid.New().String(), "-", "")
	}

	args := record.ConstructorArguments
	if args == nil {
		args = models.JSON{}
	}
	payload, err := json.MarshalIndent(map[string]interface{}{
		"constructor": args,
		"wallet":      record.FundingWallet,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("params_%s.json", token))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Runner) markSimulated(id uint, reason string) {
	if err := r.deployments.MarkSimulated(id, reason); err != nil {
		log.Printf("runner: could not mark deployment %d simulated: %v", id, err)
	}
}

func (r *Runner) markFailed(id uint, reason string) {
	if err := r.deployments.MarkFailed(id, reason); err != nil {
		log.Printf("runner: could not mark deployment %d failed: %v", id, err)
	}
}
