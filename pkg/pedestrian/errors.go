package pedestrian

import "errors"

var (
	// ErrReentrantLoad 在动画解析或模型加载过程中再次进入解析/加载
	// 属于编程错误，以 panic 形式抛出
	ErrReentrantLoad = errors.New("pedestrian: reentrant animation load")

	// ErrNotLoaded 尚未加载任何行人定义时请求播放
	ErrNotLoaded = errors.New("pedestrian: no model loaded")
)
