package transport

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
)

// SQSClient define a interface necessária para o reloader (permite Mocking)
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Reloader é quem regenera os dados servidos (ex: as coleções).
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapta uma função para Reloader.
type ReloaderFunc func(ctx context.Context) error

func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

// SQSReloader consome uma fila e dispara um Reload a cada lote recebido.
type SQSReloader struct {
	client     SQSClient
	queueURL   string
	reloader   Reloader
	logger     zerolog.Logger
	retryDelay time.Duration
	waitTime   int32
}

func NewSQSReloader(client SQSClient, queueURL string, reloader Reloader, logger zerolog.Logger) *SQSReloader {
	return &SQSReloader{
		client:     client,
		queueURL:   queueURL,
		reloader:   reloader,
		logger:     logger.With().Str("component", "sqs_reloader").Logger(),
		retryDelay: 5 * time.Second,
		waitTime:   20, // Long polling
	}
}

// Start inicia o monitoramento (bloqueante) até ctx ser cancelado.
func (s *SQSReloader) Start(ctx context.Context) {
	if s.queueURL == "" {
		s.logger.Warn().Msg("URL da fila SQS não configurada. Reload de coleções desativado.")
		return
	}

	s.logger.Info().Str("queue", s.queueURL).Msg("Monitorando fila SQS para reload das coleções")

	for ctx.Err() == nil {
		out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     s.waitTime,
		})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.logger.Error().Err(err).Msgf("Erro no SQS. Retentando em %s...", s.retryDelay)
			select {
			case <-ctx.Done():
			case <-time.After(s.retryDelay):
			}
			continue
		}

		if len(out.Messages) == 0 {
			continue
		}

		s.logger.Info().Int("messages", len(out.Messages)).Msg("Evento de reload recebido via SQS")
		if err := s.reloader.Reload(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Falha no reload das coleções")
		} else {
			s.logger.Info().Msg("Coleções regeneradas")
		}

		for _, msg := range out.Messages {
			if _, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(s.queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				s.logger.Warn().Err(err).Msg("Falha ao remover mensagem da fila")
			}
		}
	}

	s.logger.Info().Msg("Parando monitoramento SQS")
}
