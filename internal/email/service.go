package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"gymroster/internal/activity"
	"gymroster/internal/enrollment"
	"gymroster/internal/logger"
	"gymroster/internal/metrics"
)

const (
	queueKey       = "gymroster:emails"
	failedQueueKey = "gymroster:emails:failed"
	maxTries       = 3
	retryDelay     = 5 * time.Second
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From      string
	FromName  string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	RedisAddr string
}

// Service queues mails in Redis and delivers them over SMTP from a
// background worker started with Start.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg Config) *Service {
	return newService(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg)
}

func newService(rdb *redis.Client, cfg Config) *Service {
	return &Service{
		redis:    rdb,
		from:     cfg.From,
		fromName: cfg.FromName,
		smtpHost: cfg.SMTPHost,
		smtpPort: strconv.Itoa(cfg.SMTPPort),
		smtpUser: cfg.SMTPUser,
		smtpPass: cfg.SMTPPass,
		sendMail: smtp.SendMail,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "to", to, "error", err)
		return fmt.Errorf("queue email: %w", err)
	}

	logger.Debug("email queued", "to", to, "subject", subject)
	return nil
}

// Notify implements enrollment.Notifier. Clients without an address are
// skipped.
func (s *Service) Notify(ctx context.Context, evt enrollment.Event) error {
	if evt.Client.Email == "" {
		metrics.RecordNotification("email", "skipped")
		return nil
	}

	var err error
	switch evt.Type {
	case enrollment.EventEnrolled:
		err = s.SendEnrollmentConfirmation(ctx, evt.Client.Email, evt.Client.Name, evt.Activity)
	case enrollment.EventUnenrolled:
		err = s.SendUnenrollment(ctx, evt.Client.Email, evt.Client.Name, evt.Activity)
	case enrollment.EventReassigned:
		from := "your previous activity"
		if evt.From != nil {
			from = evt.From.Name
		}
		err = s.SendReassignment(ctx, evt.Client.Email, evt.Client.Name, from, evt.Activity)
	default:
		return fmt.Errorf("unknown enrollment event %q", evt.Type)
	}

	if err != nil {
		metrics.RecordNotification("email", "failed")
		return err
	}
	metrics.RecordNotification("email", "queued")
	return nil
}

func slot(a activity.Activity) string {
	return fmt.Sprintf("%s at %02d:00", a.Weekday, a.Hour)
}

func (s *Service) SendEnrollmentConfirmation(ctx context.Context, email, name string, a activity.Activity) error {
	subject := "Enrollment confirmed - " + a.Name
	body := fmt.Sprintf(`Hi %s,

You are now enrolled in %s.

When: every %s
Code: %s

See you at the gym!

- %s`, name, a.Name, slot(a), a.Code, s.fromName)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendUnenrollment(ctx context.Context, email, name string, a activity.Activity) error {
	subject := "Enrollment cancelled - " + a.Name
	body := fmt.Sprintf(`Hi %s,

Your enrollment in %s (%s) has been cancelled.

- %s`, name, a.Name, slot(a), s.fromName)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendReassignment(ctx context.Context, email, name, fromName string, to activity.Activity) error {
	subject := "Activity changed - " + to.Name
	body := fmt.Sprintf(`Hi %s,

You have been moved from %s to %s.

When: every %s
Code: %s

- %s`, name, fromName, to.Name, slot(to), to.Code, s.fromName)

	return s.Send(ctx, email, name, subject, body)
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email payload", "error", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Error("failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
		} else {
			s.saveFailed(job, err)
		}
		return
	}

	logger.Info("email sent", "to", job.To, "subject", job.Subject)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return s.sendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
