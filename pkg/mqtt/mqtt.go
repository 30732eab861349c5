// Package mqtt provides MQTT communication capabilities for the bot.
// Alerts are published under pancymod/alerts/<guild> and other services may
// query the bot with request/response pairs.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	requestPrefix  = "pancymod/request/"
	responsePrefix = "pancymod/response/"
)

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client           mqtt.Client
	responseHandlers map[string]func(MqttResponse)
	mu               sync.RWMutex
	clientID         string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a communicator and starts connecting in the
// background. Publishing fails until the broker is reachable.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{
		responseHandlers: make(map[string]func(MqttResponse)),
		clientID:         clientID,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(fmt.Sprintf("%s_%s", clientID, uuid.NewString())).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)
	mc.client.Connect()

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if !mc.IsConnected() {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
		return
	}
	mc.client.Disconnect(250)
	logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc != nil && mc.client != nil && mc.client.IsConnected()
}

// Publish sends payload as JSON to topic. It fails fast while offline
// instead of queueing.
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	if !mc.IsConnected() {
		return fmt.Errorf("mqtt: not connected")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, data)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
	return token.Error()
}

// Request sends a request and waits for a response
func (mc *MqttCommunicator) Request(topic string, payload interface{}, timeout time.Duration) (interface{}, error) {
	correlationID := uuid.NewString()
	respTopic := responseTopic(topic, correlationID)

	responseChan := make(chan MqttResponse, 1)

	mc.mu.Lock()
	mc.responseHandlers[correlationID] = func(response MqttResponse) {
		select {
		case responseChan <- response:
		default:
		}
	}
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		delete(mc.responseHandlers, correlationID)
		mc.mu.Unlock()
		mc.client.Unsubscribe(respTopic)
	}()

	token := mc.client.Subscribe(respTopic, 0, func(c mqtt.Client, msg mqtt.Message) {
		var response MqttResponse
		if err := json.Unmarshal(msg.Payload(), &response); err != nil {
			logger.Warn(fmt.Sprintf("Respuesta MQTT inválida en %s: %v", msg.Topic(), err), "MQTT")
			return
		}

		mc.mu.RLock()
		handler, exists := mc.responseHandlers[response.CorrelationID]
		mc.mu.RUnlock()

		if exists {
			handler(response)
		}
	})
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	if err := mc.Publish(requestPrefix+topic, MqttRequest{CorrelationID: correlationID, Payload: payload}); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case response := <-responseChan:
		if response.Error != "" {
			return nil, fmt.Errorf("%s", response.Error)
		}
		return response.Data, nil
	case <-timer.C:
		return nil, fmt.Errorf("la petición a '%s' ha expirado (timeout)", topic)
	}
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for a request topic
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) {
	topic := requestPrefix + requestTopic

	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		actualTopic := strings.TrimPrefix(msg.Topic(), requestPrefix)
		response, ok := handleRequest(actualTopic, msg.Payload(), callback)
		if !ok {
			return
		}
		if err := mc.Publish(responseTopic(actualTopic, response.CorrelationID), response); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo responder a %s: %v", actualTopic, err), "MQTT")
		}
	})

	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", topic, token.Error()), "MQTT")
	}
}

// handleRequest decodes a raw request and runs callback on it. Requests
// without a correlation ID cannot be answered and are dropped.
func handleRequest(topic string, raw []byte, callback RequestHandler) (MqttResponse, bool) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
		return MqttResponse{}, false
	}
	if request.CorrelationID == "" {
		return MqttResponse{}, false
	}

	payload, ok := request.Payload.(map[string]interface{})
	if !ok {
		payload = make(map[string]interface{})
	}
	payload["_topic"] = topic

	data, err := callback(payload)
	if err != nil {
		return MqttResponse{CorrelationID: request.CorrelationID, Error: err.Error()}, true
	}
	return MqttResponse{CorrelationID: request.CorrelationID, Data: data}, true
}

func responseTopic(topic, correlationID string) string {
	return fmt.Sprintf("%s%s/%s", responsePrefix, topic, correlationID)
}
