package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/eparana/eparana/config"
	errs "github.com/eparana/eparana/errors"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

const chatSystemPrompt = "Voce e um consultor politico do sistema eParana. Responda sempre em portugues, de forma objetiva, resumida e amigavel. Seu foco e: politica, marketing politico, dados do IBGE, dados do TSE e insights a partir do banco de dados/informacoes do site. Use somente os dados fornecidos no contexto; nao invente numeros nem cite fontes externas quando houver dados no contexto. Quando houver dados no contexto, cite numeros e percentuais explicitamente. A resposta deve ser curta, mas quando a pergunta pedir detalhamento de dados (ex.: faixa etaria ou instrucao), liste todos os valores solicitados e reduza o restante. Sempre inclua um plano de acoes praticas com 3 a 5 itens. Pense sempre em captacao de novos votos, com orientacoes praticas e eticas. Se a pergunta sair desses temas, recuse educadamente e redirecione para os assuntos permitidos. Quando nao souber, diga de forma clara e indique quais dados faltam no sistema."

const chatKeyMissing = "⚠️ **A API Key da OpenAI não foi configurada.**\n\nConfigure a chave no arquivo `.env` para ativar a inteligência."

// ChatRequest carries the user question plus whatever context the client
// attached about the city under the cursor.
type ChatRequest struct {
	Message           string `json:"message"`
	CityContext       string `json:"city_context"`
	MayorContext      string `json:"mayor_context"`
	SiteStats         string `json:"site_stats"`
	InvestmentContext string `json:"investment_context"`
	EleitoradoContext string `json:"eleitorado_context"`
}

type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// ChatService proxies questions to the OpenAI chat-completions API with a
// fixed political-consultant persona. Without an API key it degrades to a
// canned response instead of failing.
type ChatService interface {
	Ask(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type chatService struct {
	conf   *config.Config
	client *http.Client
}

func NewChatService(conf *config.Config) ChatService {
	return &chatService{
		conf:   conf,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *chatService) Ask(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, errs.New("Mensagem invalida", http.StatusBadRequest)
	}
	if c.conf.OpenAIAPIKey == "" {
		return &ChatResponse{Response: chatKeyMissing, Sources: []string{}}, nil
	}

	var contextParts []string
	if req.CityContext != "" {
		contextParts = append(contextParts, "CIDADE: "+req.CityContext)
	}
	if req.MayorContext != "" {
		contextParts = append(contextParts, "PREFEITO: "+req.MayorContext)
	}
	if req.SiteStats != "" {
		contextParts = append(contextParts, "ESTATISTICAS DO SITE: "+req.SiteStats)
	}
	if req.InvestmentContext != "" {
		contextParts = append(contextParts, req.InvestmentContext)
	}
	if req.EleitoradoContext != "" {
		contextParts = append(contextParts, req.EleitoradoContext)
	}

	var userPrompt string
	if len(contextParts) > 0 {
		userPrompt = "Contexto adicional:\n" + strings.Join(contextParts, "\n") +
			"\n\nPergunta do usuario: " + req.Message +
			"\n\nResponda usando apenas os dados acima e inclua o plano de acoes."
	} else {
		userPrompt = req.Message + "\n\nResponda de forma curta e inclua o plano de acoes."
	}

	payload, err := json.Marshal(map[string]interface{}{
		"model": c.conf.OpenAIModel,
		"messages": []map[string]string{
			{"role": "system", "content": chatSystemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal chat payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.conf.OpenAIAPIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "call openai")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read openai response")
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = "Erro ao chamar OpenAI"
		}
		return nil, errs.New(msg, http.StatusInternalServerError)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "decode openai response")
	}

	content := ""
	if len(parsed.Choices) > 0 {
		content = parsed.Choices[0].Message.Content
	}
	return &ChatResponse{Response: content, Sources: []string{}}, nil
}
