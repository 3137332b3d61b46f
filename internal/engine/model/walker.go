package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/logger"
	"github.com/Faultbox/assetview/pkg/asset"
)

// Walk flattens the tree under root into batches, depth-first and
// pre-order: a node's meshes in order, then its children in order.
// Mesh indices outside scene.Meshes are logged and skipped.
func Walk(root *asset.Node, scene *asset.Scene, b *Builder) []*Batch {
	var batches []*Batch
	walkNode(root, scene, b, &batches)
	return batches
}

func walkNode(node *asset.Node, scene *asset.Scene, b *Builder, out *[]*Batch) {
	if node == nil {
		return
	}
	for _, idx := range node.Meshes {
		if idx < 0 || idx >= len(scene.Meshes) || scene.Meshes[idx] == nil {
			logger.Warn("node references missing mesh", zap.String("node", node.Name), zap.Int("mesh", idx))
			continue
		}
		*out = append(*out, b.Build(scene.Meshes[idx], scene))
	}
	for _, child := range node.Children {
		walkNode(child, scene, b, out)
	}
}
