package department

// EntityName は変更通知で使うエンティティ名です。
const EntityName = "department"

// Department は部署エンティティです。ID が 0 の場合は未永続化を表します。
type Department struct {
	ID   int64
	Name string
}

// IsNew は永続化前のエンティティかどうかを返します。
func (d *Department) IsNew() bool {
	return d.ID == 0
}
