package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/pkg/llmutils"
	"github.com/joaompinto/claudine/pkg/metricskey"
	"github.com/joaompinto/claudine/tokens"
)

// ProcessPrompt sends the prompt to the model and returns the final text
// answer, executing any tool calls the model requests along the way. The
// conversation history and the token tracker are updated as a side effect.
func (a *Agent) ProcessPrompt(ctx context.Context, prompt string) (string, error) {
	started := time.Now()
	defer metricskey.PerfAgentPrompt.MeasureSince(started, a.Name())

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.callback != nil {
		a.callback.OnAgentStart(ctx, a.Name(), prompt)
	}

	result, err := a.processPrompt(ctx, prompt)
	if err != nil {
		metricskey.StatsAgentPromptsFailed.IncrCounter(1, a.Name())
		if a.callback != nil {
			a.callback.OnAgentError(ctx, a.Name(), prompt, err)
		}
		return "", err
	}
	metricskey.StatsAgentPromptsSucceeded.IncrCounter(1, a.Name())
	if a.callback != nil {
		a.callback.OnAgentEnd(ctx, a.Name(), prompt, result)
	}
	return result, nil
}

// processPrompt runs the tool-use loop. The caller holds the conversation
// lock.
func (a *Agent) processPrompt(ctx context.Context, prompt string) (string, error) {
	a.loadHistory(ctx)

	userMessage := llms.MessageFromTextParts(llms.RoleHuman, prompt)
	a.messages = append(a.messages, userMessage)
	runMessages := []llms.Message{userMessage}

	agentName := a.Name()
	modelName := a.model
	callOpts := a.callOptions()

	rounds := 0
	consecutiveNotFound := 0
	// name of the tool whose result the next model call responds to;
	// its usage is attributed to that tool
	pendingToolName := ""

	for {
		payload := a.payload()
		if len(payload) >= a.cfg.MaxMessages {
			return "", errors.Newf("agent %s: the messages count exceeded limit", agentName)
		}
		bytesSent := llmutils.CountMessagesContentSize(payload)
		if bytesSent > a.cfg.MaxContentSize {
			return "", errors.Newf("agent %s: the content size exceeded limit", agentName)
		}

		if a.callback != nil {
			a.callback.OnLLMCallStart(ctx, agentName, modelName, payload)
		}

		metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(payload)), agentName, modelName)
		metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), agentName, modelName)

		resp, err := a.llm.GenerateContent(ctx, payload, callOpts...)
		if err != nil {
			return "", errors.WithMessage(err, "failed to generate content from LLM")
		}

		if a.callback != nil {
			a.callback.OnLLMCallEnd(ctx, agentName, modelName, resp)
		}

		bytesReceived := llmutils.CountResponseContentSize(resp)
		metricskey.StatsLLMBytesReceived.IncrCounter(float64(bytesReceived), agentName, modelName)

		messageID, usage := tokens.FromResponse(resp)
		a.tracker.Record(tokens.MessageUsage{
			MessageID:   messageID,
			Usage:       usage,
			ToolRelated: pendingToolName != "",
			ToolName:    pendingToolName,
		})

		metricskey.StatsLLMInputTokens.IncrCounter(float64(usage.InputTokens), agentName, modelName)
		metricskey.StatsLLMOutputTokens.IncrCounter(float64(usage.OutputTokens), agentName, modelName)
		metricskey.StatsLLMCacheWriteTokens.IncrCounter(float64(usage.CacheCreationInputTokens), agentName, modelName)
		metricskey.StatsLLMCacheReadTokens.IncrCounter(float64(usage.CacheReadInputTokens), agentName, modelName)

		toolCalls := llmutils.ResponseToolCalls(resp)
		text := llmutils.ResponseText(resp)

		if len(toolCalls) == 0 {
			aiMessage := llms.MessageFromTextParts(llms.RoleAI, text)
			a.messages = append(a.messages, aiMessage)
			runMessages = append(runMessages, aiMessage)
			a.persist(ctx, runMessages)
			return text, nil
		}

		if rounds >= a.cfg.MaxRounds {
			return "", errors.Newf("agent %s: tool use exceeded %d rounds", agentName, a.cfg.MaxRounds)
		}
		rounds++

		// assistant turn carries the preamble text and the tool_use blocks
		var parts []llms.ContentPart
		if text != "" {
			parts = append(parts, llms.TextPart(text))
		}
		for i, toolCall := range toolCalls {
			if toolCall.ID == "" {
				toolCall.ID = fmt.Sprintf("%s_%d", toolCall.FunctionCall.Name, i)
			}
			toolCall.Type = values.StringsCoalesce(toolCall.Type, llms.ToolTypeFunction)
			toolCalls[i] = toolCall

			logger.ContextKV(ctx, xlog.DEBUG,
				"agent", agentName,
				"status", "tool_call_found",
				"tool_call_id", toolCall.ID,
				"tool_call_name", toolCall.FunctionCall.Name,
			)
			parts = append(parts, toolCall)
		}
		assistantMessage := llms.MessageFromParts(llms.RoleAI, parts...)
		a.messages = append(a.messages, assistantMessage)
		runMessages = append(runMessages, assistantMessage)

		pendingToolName = toolCalls[0].FunctionCall.Name

		notFound := 0
		for _, toolCall := range toolCalls {
			response, wasNotFound := a.executeToolCall(ctx, toolCall)
			if wasNotFound {
				notFound++
			}
			toolMessage := llms.MessageFromToolResponse(llms.RoleTool, response)
			a.messages = append(a.messages, toolMessage)
			runMessages = append(runMessages, toolMessage)
		}

		if notFound > 0 {
			consecutiveNotFound += notFound
			if consecutiveNotFound > 3 {
				return "", errors.Newf("agent %s: the number of not found tools is exceeded", agentName)
			}
		} else {
			consecutiveNotFound = 0
		}
	}
}

// executeToolCall dispatches a single tool call and folds the outcome into a
// tool_result. Failures are reported back to the model rather than aborting
// the conversation, so it can correct the arguments or try another tool. The
// bool result reports whether the tool was not found.
func (a *Agent) executeToolCall(ctx context.Context, toolCall llms.ToolCall) (llms.ToolCallResponse, bool) {
	toolName := toolCall.FunctionCall.Name
	toolArgs := toolCall.FunctionCall.Arguments

	tool := a.registry.Get(toolName)
	if tool == nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, toolName)
		if a.callback != nil {
			a.callback.OnToolNotFound(ctx, a.Name(), toolName)
		}

		availableTools := strings.Join(a.registry.Names(), ", ")
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.Name(),
			"status", "tool_not_found",
			"tool_name", toolName,
			"available_tools", availableTools,
		)

		return llms.ToolCallResponse{
			ToolCallID: toolCall.ID,
			Name:       toolName,
			Content:    fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s", toolName, availableTools),
			IsError:    true,
		}, true
	}

	if a.cfg.PreInterceptor != nil {
		toolArgs = a.cfg.PreInterceptor(ctx, toolName, toolArgs)
	}
	if a.callback != nil {
		a.callback.OnToolStart(ctx, tool, toolArgs)
	}

	started := time.Now()
	result, err := tool.Call(ctx, toolArgs)
	metricskey.PerfToolCall.MeasureSince(started, toolName)

	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)
		if a.callback != nil {
			a.callback.OnToolError(ctx, tool, toolArgs, err)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.Name(),
			"status", "tool_call_failed",
			"tool", toolName,
			"err", err.Error(),
		)
		return llms.ToolCallResponse{
			ToolCallID: toolCall.ID,
			Name:       toolName,
			Content:    fmt.Sprintf("Tool call failed: %s", err.Error()),
			IsError:    true,
		}, false
	}

	if a.cfg.PostInterceptor != nil {
		result = a.cfg.PostInterceptor(ctx, toolName, toolArgs, result)
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)
	if a.callback != nil {
		a.callback.OnToolEnd(ctx, tool, toolArgs, result)
	}

	return llms.ToolCallResponse{
		ToolCallID: toolCall.ID,
		Name:       toolName,
		Content:    result,
	}, false
}

// Reset clears the conversation history and the tracked token usage, and
// removes the persisted history when a store is configured.
func (a *Agent) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.messages = nil
	a.loaded = true
	a.tracker.Reset()

	if a.cfg.Store != nil {
		return a.cfg.Store.Reset(ctx, a.chatID)
	}
	return nil
}

// payload is the conversation as sent to the model, with the system prompt
// prepended.
func (a *Agent) payload() []llms.Message {
	if a.cfg.SystemPrompt == "" {
		return a.messages
	}
	payload := make([]llms.Message, 0, len(a.messages)+1)
	payload = append(payload, llms.MessageFromTextParts(llms.RoleSystem, a.cfg.SystemPrompt))
	payload = append(payload, a.messages...)
	return payload
}

func (a *Agent) callOptions() []llms.CallOption {
	callOpts := []llms.CallOption{
		llms.WithModel(a.model),
		llms.WithMaxTokens(a.cfg.MaxTokens),
		llms.WithTemperature(a.cfg.Temperature),
	}
	if a.registry.Len() > 0 {
		callOpts = append(callOpts,
			llms.WithTools(a.registry.Definitions()),
			llms.WithDisableParallelToolUse(a.cfg.DisableParallelToolUse),
		)
	}
	if a.cfg.PromptCache != nil {
		callOpts = append(callOpts, llms.WithPromptCachePolicy(a.cfg.PromptCache))
	}
	return callOpts
}

// loadHistory pulls the persisted conversation on first use.
func (a *Agent) loadHistory(ctx context.Context) {
	if a.loaded || a.cfg.Store == nil {
		a.loaded = true
		return
	}
	a.messages = a.cfg.Store.Messages(ctx, a.chatID)
	a.loaded = true
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.Name(),
		"chat_id", a.chatID,
		"message_history", len(a.messages),
	)
}

// persist appends the messages of a completed prompt to the store.
func (a *Agent) persist(ctx context.Context, runMessages []llms.Message) {
	if a.cfg.Store == nil || len(runMessages) == 0 {
		return
	}
	if err := a.cfg.Store.Add(ctx, a.chatID, runMessages...); err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", a.Name(),
			"chat_id", a.chatID,
			"status", "failed_to_persist_history",
			"err", err.Error(),
		)
	}
}
