package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"villa-ops-backend/internal/model"
)

// Delivery outcome per recipient.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// RecipientResult is the outcome of one staff member's delivery attempt.
type RecipientResult struct {
	StaffID string `json:"staffId"`
	Channel string `json:"channel,omitempty"`
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
}

// Result aggregates a fan-out. Success means the fan-out itself completed;
// individual recipients may still have failed.
type Result struct {
	Success bool              `json:"success"`
	Results []RecipientResult `json:"results"`
	Error   string            `json:"error,omitempty"`
}

// DeviceSource is the slice of the store the dispatcher needs.
type DeviceSource interface {
	ListStaffDevices(ctx context.Context, staffIDs []string) ([]model.StaffDevice, error)
	DeleteStaffDeviceTarget(ctx context.Context, target string) error
}

// Dispatcher fans a message out to staff devices over whichever push channel
// each device registered. Stateless; every recipient attempt is independent
// and failures are reported as data, never returned as errors.
type Dispatcher struct {
	devices DeviceSource
	expo    TokenSender
	fcm     TokenSender
	webpush WebPushSender
	wpOpts  *webpush.Options
	timeout time.Duration
}

// NewDispatcher creates a dispatcher. expo, fcm and wp may individually be
// nil when a provider is not configured; devices on that channel are then
// reported as failed rather than attempted.
func NewDispatcher(devices DeviceSource, expo, fcm TokenSender, wp WebPushSender, wpOpts *webpush.Options, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		devices: devices,
		expo:    expo,
		fcm:     fcm,
		webpush: wp,
		wpOpts:  wpOpts,
		timeout: timeout,
	}
}

// SendToStaff resolves each staff member's devices and attempts delivery.
// Recipients without a usable target are reported skipped; one recipient's
// failure never blocks the rest.
func (d *Dispatcher) SendToStaff(ctx context.Context, staffIDs []string, title, body string, data map[string]string) Result {
	devices, err := d.devices.ListStaffDevices(ctx, staffIDs)
	if err != nil {
		log.Printf("dispatcher: device lookup failed: %v", err)
		return Result{Success: false, Error: err.Error()}
	}

	byStaff := make(map[string][]model.StaffDevice)
	for _, dev := range devices {
		byStaff[dev.StaffID] = append(byStaff[dev.StaffID], dev)
	}

	msg := Message{Title: title, Body: body, Data: data}
	results := make([]RecipientResult, 0, len(staffIDs))
	for _, staffID := range staffIDs {
		results = append(results, d.sendToRecipient(ctx, staffID, byStaff[staffID], msg)...)
	}
	return Result{Success: true, Results: results}
}

func (d *Dispatcher) sendToRecipient(ctx context.Context, staffID string, devices []model.StaffDevice, msg Message) []RecipientResult {
	var usable []model.StaffDevice
	for _, dev := range devices {
		if dev.HasTarget() {
			usable = append(usable, dev)
		}
	}
	if len(usable) == 0 {
		return []RecipientResult{{StaffID: staffID, Status: StatusSkipped, Detail: "no usable push target"}}
	}

	var results []RecipientResult
	for _, dev := range usable {
		results = append(results, d.sendToDevice(ctx, staffID, dev, msg))
	}
	return results
}

// sendToDevice tries the device's channels in preference order (expo, fcm,
// web push) and reports the first attempted channel's outcome.
func (d *Dispatcher) sendToDevice(ctx context.Context, staffID string, dev model.StaffDevice, msg Message) RecipientResult {
	attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	switch {
	case dev.ExpoPushToken != "":
		return d.attemptToken(attemptCtx, staffID, "expo", d.expo, dev.ExpoPushToken, msg)
	case dev.FCMToken != "":
		return d.attemptToken(attemptCtx, staffID, "fcm", d.fcm, dev.FCMToken, msg)
	default:
		return d.attemptWebPush(ctx, staffID, dev, msg)
	}
}

func (d *Dispatcher) attemptToken(ctx context.Context, staffID, channel string, sender TokenSender, token string, msg Message) RecipientResult {
	if sender == nil {
		return RecipientResult{StaffID: staffID, Channel: channel, Status: StatusFailed, Detail: channel + " provider not configured"}
	}
	if err := sender.Send(ctx, token, msg); err != nil {
		log.Printf("dispatcher: %s delivery to staff %s failed: %v", channel, staffID, err)
		return RecipientResult{StaffID: staffID, Channel: channel, Status: StatusFailed, Detail: err.Error()}
	}
	return RecipientResult{StaffID: staffID, Channel: channel, Status: StatusSent}
}

func (d *Dispatcher) attemptWebPush(ctx context.Context, staffID string, dev model.StaffDevice, msg Message) RecipientResult {
	if d.webpush == nil || d.wpOpts == nil {
		return RecipientResult{StaffID: staffID, Channel: "webpush", Status: StatusFailed, Detail: "webpush provider not configured"}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return RecipientResult{StaffID: staffID, Channel: "webpush", Status: StatusFailed, Detail: err.Error()}
	}

	sub := &webpush.Subscription{
		Endpoint: dev.WebPushEndpoint,
		Keys: webpush.Keys{
			P256dh: dev.WebPushP256DH,
			Auth:   dev.WebPushAuth,
		},
	}
	resp, err := d.webpush.Send(payload, sub, d.wpOpts)
	if err != nil {
		log.Printf("dispatcher: webpush delivery to staff %s failed: %v", staffID, err)
		return RecipientResult{StaffID: staffID, Channel: "webpush", Status: StatusFailed, Detail: err.Error()}
	}
	defer resp.Body.Close()

	// Drop subscriptions the push service reports as gone.
	if resp.StatusCode == 410 {
		if err := d.devices.DeleteStaffDeviceTarget(ctx, dev.WebPushEndpoint); err != nil {
			log.Printf("dispatcher: failed to delete expired subscription for staff %s: %v", staffID, err)
		}
		return RecipientResult{StaffID: staffID, Channel: "webpush", Status: StatusFailed, Detail: "subscription expired"}
	}
	if resp.StatusCode >= 400 {
		return RecipientResult{StaffID: staffID, Channel: "webpush", Status: StatusFailed, Detail: resp.Status}
	}
	return RecipientResult{StaffID: staffID, Channel: "webpush", Status: StatusSent}
}
