package narrow

// ByStreamURI links to every message in stream.
func ByStreamURI(stream string) string {
	return Marker + "/stream/" + EncodeComponent(stream)
}

// ByStreamTopicURI links to one topic of stream.
func ByStreamTopicURI(stream, topic string) string {
	return ByStreamURI(stream) + "/topic/" + EncodeComponent(topic)
}

// PMWithURI links to the private conversation with emails, a comma-separated
// address list.
func (c Codec) PMWithURI(emails string) string {
	return c.Encode(Filter{{Operator: OperatorPMWith, Operand: emails}})
}

// BySenderURI links to every message sent by email.
func (c Codec) BySenderURI(email string) string {
	return c.Encode(Filter{{Operator: OperatorSender, Operand: email}})
}
