package main

import (
	"context"

	"codeberg.org/metastamp/server/internal/buffer"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/internal/notifications"
	ws "codeberg.org/metastamp/server/internal/websocket"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/usage"
)

type broadcaster interface {
	Publish(msgType string, payload any, channels ...string) int
}

type notifier interface {
	Create(ctx context.Context, req *notifications.CreateRequest) (*notifications.Notification, error)
}

type counterStore interface {
	AddTouches(ctx context.Context, q content.Querier, contentID string, touches int64, earnings float64) (*content.Increment, error)
}

// is the usage_inserted payload
type usageInserted struct {
	Event   *usage.Event     `json:"event"`
	Content *content.Content `json:"content"`
}

// fans committed counter changes out to websocket subscribers and notifications.
// it is both the usage repository's Publisher and the flusher's CounterSink.
type activity struct {
	hub      broadcaster
	notifier notifier
	contents counterStore
}

func newActivity(hub broadcaster, n notifier, contents counterStore) *activity {
	return &activity{hub: hub, notifier: n, contents: contents}
}

func (a *activity) PublishUsage(ctx context.Context, event *usage.Event, inc *content.Increment) {
	updated := inc.Content
	channels := []string{ws.ChannelAll, ws.CreatorChannel(updated.CreatorID)}

	a.hub.Publish(ws.TypeUsageInserted, usageInserted{Event: event, Content: updated}, channels...)
	a.hub.Publish(ws.TypeContentUpdated, updated, channels...)

	a.notify(ctx, notifications.ForUsage(updated.CreatorID, updated.Title, event))
	a.announceAchievements(ctx, inc)
}

func (a *activity) ApplyTouches(ctx context.Context, report buffer.TouchReport) error {
	inc, err := a.contents.AddTouches(ctx, nil, report.ContentID, report.Touches, report.Earnings)
	if err != nil {
		return err
	}

	updated := inc.Content

	a.hub.Publish(ws.TypeContentUpdated, updated, ws.ChannelAll, ws.CreatorChannel(updated.CreatorID))

	a.notify(ctx, notifications.ForTouches(updated.CreatorID, updated.ID, updated.Title, report.Touches, report.Earnings))
	a.announceAchievements(ctx, inc)

	return nil
}

// announces the milestones crossed by one committed increment
func (a *activity) announceAchievements(ctx context.Context, inc *content.Increment) {
	creatorID := inc.Content.CreatorID

	for _, unlocked := range usage.UnlockedBy(inc) {
		a.notify(ctx, notifications.ForAchievement(creatorID, unlocked))
		a.hub.Publish(ws.TypeAchievementUnlocked, unlocked, ws.CreatorChannel(creatorID))

		logger.Info("achievement unlocked", "creator_id", creatorID, "achievement", unlocked.ID)
	}
}

func (a *activity) notify(ctx context.Context, req *notifications.CreateRequest) {
	if _, err := a.notifier.Create(ctx, req); err != nil {
		logger.ErrorErr(err, "failed to create notification",
			"creator_id", req.CreatorID,
			"type", req.Type,
		)
	}
}
