package notification

import (
	"context"
	"fmt"
	"log"
	"strconv"
)

// Alert is a delay-escalation job queued for asynchronous delivery.
type Alert struct {
	JobID     string
	StaffID   string
	DelayRisk int
	Severity  string
}

// AlertPool manages a pool of workers delivering delay alerts off the
// progress-update critical path.
type AlertPool struct {
	size       int
	jobs       chan Alert
	dispatcher *Dispatcher
}

// NewAlertPool creates a new worker pool with the given concurrency and
// queue depth.
func NewAlertPool(size, queueSize int, dispatcher *Dispatcher) *AlertPool {
	return &AlertPool{
		size:       size,
		jobs:       make(chan Alert, queueSize),
		dispatcher: dispatcher,
	}
}

// Start launches the worker goroutines.
func (p *AlertPool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		go p.worker(ctx, i)
	}
}

func (p *AlertPool) worker(ctx context.Context, id int) {
	log.Printf("alert worker %d started", id)
	for {
		select {
		case alert := <-p.jobs:
			p.deliver(ctx, alert)
		case <-ctx.Done():
			log.Printf("alert worker %d shutting down", id)
			return
		}
	}
}

// Dispatch enqueues an alert without blocking. If the queue is full the
// alert is dropped and logged; delivery is best-effort and must never stall
// the progress-update path.
func (p *AlertPool) Dispatch(alert Alert) {
	select {
	case p.jobs <- alert:
	default:
		log.Printf("alert queue full, dropping alert for job %s", alert.JobID)
	}
}

// Jobs returns the jobs channel for testing.
func (p *AlertPool) Jobs() chan Alert {
	return p.jobs
}

func (p *AlertPool) deliver(ctx context.Context, alert Alert) {
	title := fmt.Sprintf("Delay alert: job %s", alert.JobID)
	body := fmt.Sprintf("Job %s is at %d%% delay risk (%s)", alert.JobID, alert.DelayRisk, alert.Severity)

	result := p.dispatcher.SendToStaff(ctx, []string{alert.StaffID}, title, body, map[string]string{
		"type":      "delay_alert",
		"jobId":     alert.JobID,
		"delayRisk": strconv.Itoa(alert.DelayRisk),
		"severity":  alert.Severity,
	})
	if !result.Success {
		log.Printf("alert delivery for job %s failed: %s", alert.JobID, result.Error)
	}
}
