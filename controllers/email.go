package controllers

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-gomail/gomail"
)

// mailJob is one outbound mail waiting in the queue
type mailJob struct {
	subject        string
	body           string
	to             string
	attachmentName string
	attachmentData []byte
	attempts       int
}

const (
	mailMaxRetries = 3
	mailQueueSize  = 100
)

var mailQueue chan mailJob

// StartMailWorker starts the background mail sender. Mail failures are
// retried with exponential backoff and finally logged and dropped; they
// never block or fail the request that queued them.
func StartMailWorker() {
	mailQueue = make(chan mailJob, mailQueueSize)
	go func() {
		for job := range mailQueue {
			if err := sendMail(job); err != nil {
				job.attempts++
				if job.attempts >= mailMaxRetries {
					log.Println("Dropping mail to", job.to, "after", job.attempts, "attempts:", err)
					continue
				}
				go requeueMail(job)
			}
		}
	}()
}

func requeueMail(job mailJob) {
	// 2s, 4s, 8s...
	delay := time.Duration(1<<job.attempts) * time.Second
	time.Sleep(delay)
	select {
	case mailQueue <- job:
	default:
		log.Println("Mail queue full, dropping mail to", job.to)
	}
}

// QueueEmail enqueues a mail without an attachment
func QueueEmail(subject, body, to string) {
	QueueEmailWithAttachment(subject, body, to, "", nil)
}

// QueueEmailWithAttachment enqueues a mail carrying a file attachment
func QueueEmailWithAttachment(subject, body, to, attachmentName string, attachmentData []byte) {
	if mailQueue == nil {
		log.Println("Mail worker not started, dropping mail to", to)
		return
	}
	select {
	case mailQueue <- mailJob{subject: subject, body: body, to: to, attachmentName: attachmentName, attachmentData: attachmentData}:
	default:
		log.Println("Mail queue full, dropping mail to", to)
	}
}

// sendMail dials the SMTP server and sends one message
func sendMail(job mailJob) error {
	senderEmail := os.Getenv("Email")
	senderPassword := os.Getenv("Password")

	m := gomail.NewMessage()
	m.SetHeader("From", senderEmail)
	m.SetHeader("To", job.to)
	m.SetHeader("Subject", job.subject)
	m.SetBody("text/plain", job.body)

	if job.attachmentName != "" {
		data := job.attachmentData
		m.Attach(job.attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	d := gomail.NewDialer("smtp.gmail.com", 587, senderEmail, senderPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}

	return nil
}
