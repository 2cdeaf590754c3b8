package mpipeline

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

// Icon names the pipeline carries in the UI. The set is closed; anything
// else is rejected at the service layer.
const (
	IconFunnel    = "funnel"
	IconBriefcase = "briefcase"
	IconHandshake = "handshake"
	IconTarget    = "target"
	IconRocket    = "rocket"
	IconBuilding  = "building"
)

var icons = map[string]struct{}{
	IconFunnel:    {},
	IconBriefcase: {},
	IconHandshake: {},
	IconTarget:    {},
	IconRocket:    {},
	IconBuilding:  {},
}

func ValidIcon(name string) bool {
	_, ok := icons[name]
	return ok
}

type Pipeline struct {
	ID          idwrap.IDWrap
	Name        string
	Description string
	Icon        string
	Order       int
	Updated     time.Time
}

func (p Pipeline) GetCreatedTime() time.Time {
	return p.ID.Time()
}

type Stage struct {
	ID         idwrap.IDWrap
	PipelineID idwrap.IDWrap
	Name       string
	Order      int
	Updated    time.Time
}

func (s Stage) GetCreatedTime() time.Time {
	return s.ID.Time()
}
