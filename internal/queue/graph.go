package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"
)

// GraphJobMsg is the body of a graph_queue message.
type GraphJobMsg struct {
	JobID     string            `json:"job_id"`
	Documents []common.Document `json:"documents"`
}

// GraphDoneMsg is published on graph.done after a job result was stored.
type GraphDoneMsg struct {
	JobID string `json:"job_id"`
	Key   string `json:"key"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// GraphBuilder builds a graph from documents.
type GraphBuilder interface {
	BuildGraph(ctx context.Context, docs []common.Document) (*common.GraphResult, error)
}

// ResultWriter stores finished job results.
type ResultWriter interface {
	Put(ctx context.Context, jobID string, result *common.GraphResult) error
}

// GraphProcessor handles graph_queue messages.
type GraphProcessor struct {
	Graph     GraphBuilder
	Results   ResultWriter
	Publisher Publisher
	// KeyFunc maps a job id to the key reported on graph.done.
	KeyFunc func(jobID string) string
}

// EnqueueGraphJob publishes a graph job.
func EnqueueGraphJob(ctx context.Context, ch Publisher, msg GraphJobMsg) error {
	if msg.JobID == "" {
		return errors.New("job id is required")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return PublishFIFO(ctx, ch, GraphQueue, body)
}

// ProcessGraphMessage builds the graph of a job, stores the result and
// announces it on graph.done.
func (p *GraphProcessor) ProcessGraphMessage(ctx context.Context, body []byte) error {
	var data GraphJobMsg
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("failed to decode graph job: %w", err)
	}
	if data.JobID == "" {
		return errors.New("graph job without id")
	}

	start := time.Now()
	logger.Info("[Queue] Processing graph job", "job_id", data.JobID, "documents", len(data.Documents))

	result, err := p.Graph.BuildGraph(ctx, data.Documents)
	if err != nil {
		return fmt.Errorf("failed to build graph for job %s: %w", data.JobID, err)
	}

	if err := p.Results.Put(ctx, data.JobID, result); err != nil {
		return fmt.Errorf("failed to store graph for job %s: %w", data.JobID, err)
	}

	key := data.JobID
	if p.KeyFunc != nil {
		key = p.KeyFunc(data.JobID)
	}
	done, err := json.Marshal(GraphDoneMsg{
		JobID: data.JobID,
		Key:   key,
		Nodes: len(result.Nodes),
		Edges: len(result.Edges),
	})
	if err != nil {
		return err
	}
	if err := PublishTopic(ctx, p.Publisher, GraphDoneTopic, done); err != nil {
		// result already stored, not retried
		logger.Error("[Queue] Failed to publish graph.done", "job_id", data.JobID, "err", err)
	}

	logger.Info(
		"[Queue] Graph job finished",
		"job_id", data.JobID,
		"nodes", len(result.Nodes),
		"edges", len(result.Edges),
		"duration", time.Since(start),
	)
	return nil
}
