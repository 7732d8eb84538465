package room_type_enum

// 房间类型
// PRIVATE：创建时指定了陪伴者的私聊房间，陪伴者永远不能关闭
// GROUP：未指定陪伴者的群组房间，可由被分配的陪伴者关闭
const (
	PRIVATE = "private"
	GROUP   = "group"
)
