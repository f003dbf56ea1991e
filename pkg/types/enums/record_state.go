package type_enums

// RecordState is the soft lifecycle state carried by every audited row.
type RecordState string

const (
	RecordStateActive   RecordState = "ACTIVE"
	RecordStateArchived RecordState = "ARCHIVE"
	RecordStateDeleted  RecordState = "DELETED"
)

func (rs RecordState) IsActive() bool {
	return rs == RecordStateActive
}
