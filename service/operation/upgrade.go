package operation

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"golang.org/x/crypto/blake2b"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/service/registry"
)

// Upgrade handles software upgrade requests. The module bytes are verified
// against their BLAKE2b-256 checksum on creation; execution stages the
// artifact for the external deployer, so the request stays in processing
// until the deployment outcome is reported.
type Upgrade struct {
	approverNotifier
	fs      afs.Service
	baseURL string
}

// NewUpgrade creates the upgrade handler staging artifacts under baseURL.
func NewUpgrade(fs afs.Service, baseURL string, notifier Notifier) *Upgrade {
	return &Upgrade{
		approverNotifier: approverNotifier{notifier: notifier},
		fs:               fs,
		baseURL:          baseURL,
	}
}

func (h *Upgrade) Kind() model.OperationKind { return model.OperationUpgrade }

func (h *Upgrade) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.Upgrade
	if op.Input.Target == "" {
		return model.NewValidationError("upgrade target must not be empty")
	}
	if len(op.Input.Module) == 0 {
		return model.NewValidationError("upgrade module must not be empty")
	}
	if op.Input.Checksum == "" {
		return model.NewValidationError("upgrade checksum must not be empty")
	}
	digest := blake2b.Sum256(op.Input.Module)
	if !strings.EqualFold(op.Input.Checksum, hex.EncodeToString(digest[:])) {
		return model.NewValidationError("upgrade checksum does not match module digest")
	}
	return nil
}

// Execute stages the verified module bytes and hands off to the deployer.
func (h *Upgrade) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.Upgrade.Clone()
	artifactURL := url.Join(h.baseURL, fmt.Sprintf("%v-%v.bin", op.Input.Target, request.ID))
	if err := h.fs.Upload(ctx, artifactURL, file.DefaultFileOsMode, bytes.NewReader(op.Input.Module)); err != nil {
		return nil, model.NewExecutionError("failed to stage upgrade artifact: %v", err)
	}
	op.ArtifactURL = artifactURL
	return registry.Processing(&model.Operation{Upgrade: op}), nil
}
