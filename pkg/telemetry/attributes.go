package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard attribute keys
const (
	// Route request
	AttrOrigin      = "route.origin"
	AttrDestination = "route.destination"
	AttrCriterion   = "route.criterion"
	AttrVesselType  = "route.vessel_type"
	AttrCacheHit    = "route.cache_hit"
	AttrCandidates  = "route.candidates_evaluated"

	// Pathfinding
	AttrAlgorithm     = "pathfinding.algorithm"
	AttrNodesExpanded = "pathfinding.nodes_expanded"
	AttrPathLength    = "pathfinding.path_length"
	AttrPathDistance  = "pathfinding.distance_nm"

	// Graph
	AttrGraphPorts = "graph.ports"
	AttrGraphEdges = "graph.edges"

	// Validation
	AttrValidationErrors = "validation.errors"
	AttrValidationPassed = "validation.passed"
)

// RequestAttributes returns attributes describing a route request.
func RequestAttributes(origin, destination, criterion, vesselType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOrigin, origin),
		attribute.String(AttrDestination, destination),
		attribute.String(AttrCriterion, criterion),
		attribute.String(AttrVesselType, vesselType),
	}
}

// PathfindingAttributes returns attributes describing a pathfinding run.
func PathfindingAttributes(algorithm string, nodesExpanded, pathLength int, distanceNM float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAlgorithm, algorithm),
		attribute.Int(AttrNodesExpanded, nodesExpanded),
		attribute.Int(AttrPathLength, pathLength),
		attribute.Float64(AttrPathDistance, distanceNM),
	}
}

// ValidationAttributes returns attributes describing a validation outcome.
func ValidationAttributes(errorsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrValidationErrors, errorsCount),
		attribute.Bool(AttrValidationPassed, passed),
	}
}
