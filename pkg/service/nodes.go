package service

import (
	"context"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	errs "github.com/matzehuels/canvaskit/pkg/errors"
)

// AddNode adds a node to a canvas. Missing coordinates are auto-placed on
// the node grid.
func (s *Service) AddNode(ctx context.Context, canvasID string, spec canvas.NodeSpec) (canvas.Node, error) {
	if err := validateStyle(spec.Style); err != nil {
		return canvas.Node{}, err
	}
	if err := errs.ValidateURL(spec.ImageURL); err != nil {
		return canvas.Node{}, err
	}
	var added canvas.Node
	_, err := s.mutate(ctx, "add_node", canvasID, func(doc *canvas.Document) error {
		n, err := doc.AddNode(spec)
		added = n
		return err
	})
	return added, err
}

// UpdateNode merges the provided fields into an existing node.
func (s *Service) UpdateNode(ctx context.Context, canvasID, nodeID string, patch canvas.NodePatch) (canvas.Node, error) {
	if err := validateStyle(patch.Style); err != nil {
		return canvas.Node{}, err
	}
	if patch.ImageURL != nil {
		if err := errs.ValidateURL(*patch.ImageURL); err != nil {
			return canvas.Node{}, err
		}
	}
	var updated canvas.Node
	_, err := s.mutate(ctx, "update_node", canvasID, func(doc *canvas.Document) error {
		n, err := doc.UpdateNode(nodeID, patch)
		updated = n
		return err
	})
	return updated, err
}

// DeleteNode removes a node and every connection that references it. The
// removed connections are returned.
func (s *Service) DeleteNode(ctx context.Context, canvasID, nodeID string) ([]canvas.Connection, error) {
	var removed []canvas.Connection
	_, err := s.mutate(ctx, "delete_node", canvasID, func(doc *canvas.Document) error {
		r, err := doc.DeleteNode(nodeID)
		removed = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// AddConnection joins two nodes of a canvas. A missing endpoint is an
// INVALID_REFERENCE error and leaves the canvas unchanged.
func (s *Service) AddConnection(ctx context.Context, canvasID string, spec canvas.ConnectionSpec) (canvas.Connection, error) {
	if err := errs.ValidateColor(spec.Color); err != nil {
		return canvas.Connection{}, err
	}
	var added canvas.Connection
	_, err := s.mutate(ctx, "add_connection", canvasID, func(doc *canvas.Document) error {
		c, err := doc.AddConnection(spec)
		added = c
		return err
	})
	return added, err
}

// DeleteConnection removes one connection.
func (s *Service) DeleteConnection(ctx context.Context, canvasID, connectionID string) error {
	_, err := s.mutate(ctx, "delete_connection", canvasID, func(doc *canvas.Document) error {
		return doc.DeleteConnection(connectionID)
	})
	return err
}

func validateStyle(st *canvas.NodeStyle) error {
	if st == nil {
		return nil
	}
	for _, c := range []string{st.TextColor, st.BackgroundColor, st.BorderColor} {
		if err := errs.ValidateColor(c); err != nil {
			return err
		}
	}
	if st.FontSize < 0 || st.BorderWidth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "font size and border width must not be negative")
	}
	return nil
}
