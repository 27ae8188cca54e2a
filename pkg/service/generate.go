package service

import (
	"context"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	errs "github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/layout"
)

// CreateMindmap stores a new mindmap with a central topic and one branch
// per entry of branches, arranged radially around it.
func (s *Service) CreateMindmap(ctx context.Context, name, central string, branches []string) (doc *canvas.Document, err error) {
	defer s.track(ctx, "create_mindmap", "")(&err)

	if strings.TrimSpace(central) == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "central topic cannot be empty")
	}
	doc, err = s.newDocument(name, canvas.DocumentMindmap)
	if err != nil {
		return nil, err
	}
	if _, err := layout.Mindmap(doc, central, branches); err != nil {
		return nil, classify(err)
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("created mindmap", "id", doc.ID, "name", doc.Name, "branches", len(branches))
	return doc, nil
}

// AddBranches attaches topics to an existing node of a canvas and returns
// the new branch nodes.
func (s *Service) AddBranches(ctx context.Context, canvasID, parentID string, topics []string) ([]canvas.Node, error) {
	var added []canvas.Node
	_, err := s.mutate(ctx, "add_branches", canvasID, func(doc *canvas.Document) error {
		nodes, err := layout.AddBranches(doc, parentID, topics)
		added = nodes
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// CreateWorkflow stores a new workflow. Custom step titles take precedence
// over the template; an unknown template without custom steps is an
// INVALID_INPUT error naming it.
func (s *Service) CreateWorkflow(ctx context.Context, name, template string, custom []string) (doc *canvas.Document, err error) {
	defer s.track(ctx, "create_workflow", "")(&err)

	steps, err := layout.WorkflowSteps(template, custom)
	if err != nil {
		return nil, classify(err)
	}
	doc, err = s.newDocument(name, canvas.DocumentWorkflow)
	if err != nil {
		return nil, err
	}
	if _, err := layout.Workflow(doc, steps); err != nil {
		return nil, classify(err)
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("created workflow", "id", doc.ID, "name", doc.Name, "steps", len(steps))
	return doc, nil
}
