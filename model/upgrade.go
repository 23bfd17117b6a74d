package model

// UpgradeInput proposes a software upgrade of a managed component. Checksum
// is the hex BLAKE2b-256 digest of Module and is verified before the request
// is created.
type UpgradeInput struct {
	Target   string `json:"target" yaml:"target"`
	Module   []byte `json:"module" yaml:"module"`
	Checksum string `json:"checksum" yaml:"checksum"`
	Arg      []byte `json:"arg,omitempty" yaml:"arg,omitempty"`
}

// UpgradeOperation carries the payload and, after execution started, the URL
// the artifact was staged to.
type UpgradeOperation struct {
	Input       UpgradeInput `json:"input" yaml:"input"`
	ArtifactURL string       `json:"artifactUrl,omitempty" yaml:"artifactUrl,omitempty"`
}

func (o *UpgradeOperation) Clone() *UpgradeOperation {
	out := *o
	if o.Input.Module != nil {
		out.Input.Module = append([]byte(nil), o.Input.Module...)
	}
	if o.Input.Arg != nil {
		out.Input.Arg = append([]byte(nil), o.Input.Arg...)
	}
	return &out
}
