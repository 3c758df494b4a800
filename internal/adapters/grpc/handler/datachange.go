package handler

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/datachange"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/seller"
)

// DefaultWatchBuffer はストリームごとに保持できる未送信イベント数です。
const DefaultWatchBuffer = 64

// Subscriber は変更通知の購読を提供します。
type Subscriber interface {
	Subscribe(listener datachange.Listener) (unsubscribe func())
}

// DataChangeGrpcHandler は DataChangeService の gRPC 実装です。
type DataChangeGrpcHandler struct {
	events Subscriber
	buffer int
	log    *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

var _ DataChangeServiceServer = (*DataChangeGrpcHandler)(nil)

// NewDataChangeGrpcHandler は DataChangeGrpcHandler を生成します。
func NewDataChangeGrpcHandler(events Subscriber, log *zap.Logger) *DataChangeGrpcHandler {
	if events == nil {
		panic("handler: subscriber is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DataChangeGrpcHandler{
		events: events,
		buffer: DefaultWatchBuffer,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Close は実行中の Watch をすべて正常終了させます。GracefulStop の前に呼び出してください。
func (h *DataChangeGrpcHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Watch は購読を開始してヘッダーを送信し、以降の変更を 1 件ずつ送信します。
// entity を指定すると、そのエンティティの変更だけを受け取ります。
func (h *DataChangeGrpcHandler) Watch(req *structpb.Struct, stream grpc.ServerStream) error {
	entity := stringField(req, keyEntity)
	switch entity {
	case "", department.EntityName, seller.EntityName:
	default:
		return status.Errorf(codes.InvalidArgument, "unknown entity %q", entity)
	}

	ctx := stream.Context()
	events := make(chan datachange.Event, h.buffer)
	unsubscribe := h.events.Subscribe(datachange.ListenerFunc(func(_ context.Context, e datachange.Event) {
		if entity != "" && e.Entity != entity {
			return
		}
		// Publish 側をブロックしないよう、溢れたイベントは破棄します。
		select {
		case events <- e:
		default:
			h.log.Warn("watch buffer full, dropping event",
				zap.String("event_id", e.ID),
				zap.String("entity", e.Entity),
				zap.Int64("entity_id", e.EntityID),
			)
		}
	}))
	defer unsubscribe()

	if err := stream.SendHeader(nil); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.done:
			return nil
		case e := <-events:
			if err := stream.SendMsg(eventToStruct(e)); err != nil {
				return err
			}
		}
	}
}
