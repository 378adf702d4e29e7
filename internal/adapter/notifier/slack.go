package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hive-corporation/autosoc/internal/core/domain"
)

type SlackNotifier struct {
	botToken    string
	channel     string
	mentionTeam string
	httpClient  *http.Client
}

func NewSlackNotifier(botToken, channel, mentionTeam string) *SlackNotifier {
	return &SlackNotifier{
		botToken:    botToken,
		channel:     channel,
		mentionTeam: mentionTeam,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NotifyAssessment sends a formatted threat assessment to the analyst channel
func (s *SlackNotifier) NotifyAssessment(assessment domain.ThreatAssessment, event domain.LogEvent) error {
	blocks := s.buildAssessmentBlocks(assessment, event)

	payload := SlackMessage{
		Channel: s.channel,
		Blocks:  blocks,
		Text:    fmt.Sprintf("⚠️ %s: %s", strings.ToUpper(string(assessment.Severity)), assessment.ThreatSummary),
	}

	return s.sendMessage(payload)
}

// NotifyTriage sends a coordinated-attack judgment for an alert cluster
func (s *SlackNotifier) NotifyTriage(triage domain.TriageResult, alertCount int) error {
	blocks := s.buildTriageBlocks(triage, alertCount)

	headline := "🔎 Alert cluster triaged"
	if triage.IsCoordinatedAttack {
		headline = "🚨 Coordinated attack detected"
	}

	payload := SlackMessage{
		Channel: s.channel,
		Blocks:  blocks,
		Text:    headline,
	}

	return s.sendMessage(payload)
}

// DeliverWeeklyReport posts the plain-text weekly report
func (s *SlackNotifier) DeliverWeeklyReport(report string) error {
	payload := SlackMessage{
		Channel: s.channel,
		Blocks: []SlackBlock{
			{
				Type: "header",
				Text: &SlackText{Type: "plain_text", Text: "📊 Weekly Security Report"},
			},
			{
				Type: "section",
				Text: &SlackText{Type: "mrkdwn", Text: report},
			},
		},
		Text: "📊 Weekly Security Report",
	}

	return s.sendMessage(payload)
}

func (s *SlackNotifier) buildAssessmentBlocks(assessment domain.ThreatAssessment, event domain.LogEvent) []SlackBlock {
	severityEmoji := map[domain.Severity]string{
		domain.SeverityCritical: "🔴",
		domain.SeverityHigh:     "🟠",
		domain.SeverityMedium:   "🟡",
		domain.SeverityLow:      "🟢",
		domain.SeverityInfo:     "🔵",
	}
	emoji := severityEmoji[assessment.Severity]
	if emoji == "" {
		emoji = "⚠️"
	}

	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{
				Type: "plain_text",
				Text: fmt.Sprintf("%s %s Severity Threat Detected", emoji, strings.ToUpper(string(assessment.Severity))),
			},
		},
		{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*🤖 AI Analysis*\n%s", assessment.ThreatSummary),
			},
		},
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Category*\n%s", assessment.ThreatCategory)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Confidence*\n%.0f%%", assessment.Confidence*100)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Is Threat*\n%v", assessment.IsThreat)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*FP Likelihood*\n%s", assessment.FalsePositiveLikelihood)},
			},
		},
		{Type: "divider"},
		{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*📊 Technical Details*\n%s", assessment.TechnicalDetails),
			},
		},
	}

	if assessment.MitreAttackTechnique != "" {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*MITRE ATT&CK*: `%s`", assessment.MitreAttackTechnique),
			},
		})
	}

	if len(assessment.RecommendedActions) > 0 {
		recommendedText := "*✅ Recommended Actions*\n"
		for _, action := range assessment.RecommendedActions {
			recommendedText += fmt.Sprintf("• %s\n", action)
		}
		blocks = append(blocks,
			SlackBlock{Type: "divider"},
			SlackBlock{
				Type: "section",
				Text: &SlackText{Type: "mrkdwn", Text: recommendedText},
			},
		)
	}

	blocks = append(blocks, SlackBlock{
		Type: "context",
		Elements: []SlackText{
			{
				Type: "mrkdwn",
				Text: fmt.Sprintf("Provider: *%s* | Analyzed: *%s* | Immediate action: *%v*",
					assessment.Provider, assessment.AnalyzedAt.Format(time.RFC3339), assessment.RequiresImmediateAction),
			},
		},
	})

	if s.mentionTeam != "" {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{Type: "mrkdwn", Text: fmt.Sprintf("🔔 %s", s.mentionTeam)},
		})
	}

	return blocks
}

func (s *SlackNotifier) buildTriageBlocks(triage domain.TriageResult, alertCount int) []SlackBlock {
	if triage.Error != "" {
		return []SlackBlock{
			{
				Type: "header",
				Text: &SlackText{Type: "plain_text", Text: "🔎 Alert Cluster Triage"},
			},
			{
				Type: "section",
				Text: &SlackText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("Correlation unavailable for %d alerts — manual review required.\n`%s`", alertCount, triage.Error),
				},
			},
		}
	}

	return []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{Type: "plain_text", Text: "🔎 Alert Cluster Triage"},
		},
		{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Narrative*\n%s", triage.AttackNarrative),
			},
		},
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Coordinated*\n%v", triage.IsCoordinatedAttack)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Kill Chain Stage*\n%s", triage.KillChainStage)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Severity*\n%s", triage.ConsolidatedSeverity)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Priority*\n%d/100", triage.PriorityScore)},
			},
		},
		{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Recommended Response*: %s\n*Blast Radius*: %s\n\ncc: %s",
					triage.RecommendedResponse, triage.EstimatedBlastRadius, s.mentionTeam),
			},
		},
	}
}

// Send message to Slack
func (s *SlackNotifier) sendMessage(msg SlackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequest("POST", "https://slack.com/api/chat.postMessage", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.botToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API returned status %d", resp.StatusCode)
	}

	return nil
}

// Slack API structures

type SlackMessage struct {
	Channel string       `json:"channel"`
	Blocks  []SlackBlock `json:"blocks"`
	Text    string       `json:"text"` // Fallback text
}

type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Fields   []SlackText `json:"fields,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
}

type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
