package playable

// Response is a message sent to a connected client
// Context echoes the Context of the PayloadIn it answers
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// Error returns an error response carrying message
func Error(ctx string, message string) *Response {
	return &Response{
		Key:     "error",
		Value:   message,
		Context: ctx,
	}
}

// PayloadIn is the format we expect from the web client
type PayloadIn struct {
	Action         string         `json:"action"`
	Subject        string         `json:"subject"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	return int(floatVal), true
}

// GetBool returns a boolean value for the given key
func (a AdditionalData) GetBool(key string) (bool, bool) {
	boolVal, ok := a[key].(bool)
	if !ok {
		return false, false
	}

	return boolVal, true
}

// GetIntSlice returns a slice of integers
func (a AdditionalData) GetIntSlice(key string) ([]int, bool) {
	switch slice := a[key].(type) {
	case []float64:
		ints := make([]int, len(slice))
		for i, val := range slice {
			ints[i] = int(val)
		}
		return ints, true
	case []interface{}:
		ints := make([]int, len(slice))
		for i, val := range slice {
			floatVal, ok := val.(float64)
			if !ok {
				return nil, false
			}

			ints[i] = int(floatVal)
		}
		return ints, true
	}

	return nil, false
}
