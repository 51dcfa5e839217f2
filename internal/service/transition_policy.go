package service

import (
	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
)

// TransitionPolicy decides whether a consent may move from one status to another.
// A non-nil error rejects the transition.
type TransitionPolicy interface {
	CanTransition(from, to string) error
}

// GraphPolicy accepts only the edges of a configured status graph
type GraphPolicy struct {
	edges map[string]map[string]struct{}
}

// NewGraphPolicy builds a policy from a source status to target statuses graph
func NewGraphPolicy(graph map[string][]string) *GraphPolicy {
	edges := make(map[string]map[string]struct{}, len(graph))
	for from, targets := range graph {
		set, ok := edges[from]
		if !ok {
			set = make(map[string]struct{}, len(targets))
			edges[from] = set
		}
		for _, to := range targets {
			set[to] = struct{}{}
		}
	}
	return &GraphPolicy{edges: edges}
}

func (p *GraphPolicy) CanTransition(from, to string) error {
	targets, ok := p.edges[from]
	if !ok {
		return serviceerror.InvalidStateTransition("no transitions are allowed from status %q", from)
	}
	if _, ok := targets[to]; !ok {
		return serviceerror.InvalidStateTransition("transition from %q to %q is not allowed", from, to)
	}
	return nil
}

// PermissivePolicy accepts every transition
type PermissivePolicy struct{}

func (PermissivePolicy) CanTransition(string, string) error {
	return nil
}

// NewTransitionPolicy returns a GraphPolicy for a non-empty graph and a
// PermissivePolicy otherwise
func NewTransitionPolicy(graph map[string][]string, logger *logrus.Logger) TransitionPolicy {
	if len(graph) == 0 {
		if logger != nil {
			logger.Warn("No consent status transition graph configured, every status transition will be accepted")
		}
		return PermissivePolicy{}
	}
	return NewGraphPolicy(graph)
}
