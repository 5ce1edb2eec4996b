package alerting

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type SlackAlertSender struct {
	AlertSender
	client     *slack.Client
	channelIDs []string
	members    []string
}

type SlackAlertConfig struct {
	AuthToken  string   `json:"auth_token"`
	ChannelIDs []string `json:"channel_ids"`
	Members    []string `json:"members"`
}

func NewSlackAlertSender(config *SlackAlertConfig, options ...slack.Option) *SlackAlertSender {
	return &SlackAlertSender{
		client:     slack.New(config.AuthToken, options...),
		channelIDs: config.ChannelIDs,
		members:    config.Members,
	}
}

func (s *SlackAlertSender) senderName() string {
	return "slack"
}

func (s *SlackAlertSender) sendAlert(ctx context.Context, msg *TraceMessage) error {
	ccMembersPart := "cc: <!channel>"
	if len(s.members) > 0 {
		ccMembersPart = "cc: @" + s.members[0]
		for _, member := range s.members[1:] {
			ccMembersPart += " @" + member
		}
	}
	for _, channelID := range s.channelIDs {
		_, _, _, err := s.client.SendMessageContext(ctx, channelID, slack.MsgOptionBlocks(
			slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", ":rotating_light:Alert:rotating_light:: "+msg.Title(), true, false)),
			slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", msg.Message+"\n"+ccMembersPart, false, false), nil, nil),
			slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", "class: `"+msg.ErrorClass+"` id: `"+msg.ID+"`", false, false)),
		))
		if err != nil {
			return fmt.Errorf("failed to send message to Slack channel %s: %w", channelID, err)
		}
	}
	return nil
}
