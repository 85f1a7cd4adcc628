package catalog

// FallbackTaskTemplate is drawn when a zone has no templates.
const FallbackTaskTemplate = "今天给自己一些温柔的关怀吧 💕"

var taskTemplates = map[Zone][]string{
	ZoneSelfCare: {
		"给自己泡一杯喜欢的茶或咖啡",
		"花10分钟做深呼吸练习",
		"写下今天的三件好事",
		"给自己一个温暖的拥抱",
		"听一首让你放松的音乐",
		"对镜子里的自己说句鼓励的话",
		"整理一下自己的外表，让自己感觉更好",
		"花5分钟冥想或静坐",
		"给自己买一样小小的礼物",
		"在阳光下坐一会儿",
		"写一封给未来自己的信",
		"做一件让自己开心的小事",
	},
	ZonePhysical: {
		"喝一大杯温水",
		"做10个深蹲或俯卧撑",
		"伸展身体5分钟",
		"到户外走走，呼吸新鲜空气",
		"吃一份健康的水果",
		"做眼保健操，缓解眼部疲劳",
		"早睡30分钟",
		"做一套简单的瑜伽动作",
		"按摩自己的肩膀和脖子",
		"爬楼梯代替坐电梯",
		"准备一份营养均衡的餐食",
		"洗个舒服的热水澡",
	},
	ZoneEmotional: {
		"写下现在的感受，不加评判",
		"给信任的朋友发个消息",
		"看一部治愈的电影或视频",
		"画画或涂鸦表达情绪",
		"大声唱一首喜欢的歌",
		"抱抱毛绒玩具或宠物",
		"在日记里倾诉心情",
		"做几个让自己笑的表情",
		"回忆一个美好的回忆",
		"给自己写一张鼓励小纸条",
		"允许自己哭一会儿，释放情绪",
		"练习感恩，想想值得感谢的事",
	},
	ZoneCreative: {
		"画一幅简单的涂鸦",
		"写一首小诗或几句话",
		"学一个新的手工技巧",
		"拍几张有趣的照片",
		"尝试一个新的菜谱",
		"重新装饰房间的一个角落",
		"学几个新单词或短语",
		"创作一个小故事",
		"设计一个理想中的房间",
		"制作一个简单的手工艺品",
		"尝试一种新的艺术形式",
		"为喜欢的歌曲编舞",
	},
	ZoneSocial: {
		"给久未联系的朋友发消息",
		"向家人表达爱意",
		"帮助一个需要帮助的人",
		"加入一个兴趣小组或社区",
		"和邻居打个招呼",
		"给服务人员一个微笑和感谢",
		"分享一个有趣的内容给朋友",
		"主动约朋友见面聊天",
		"参加一个社交活动",
		"给重要的人写一封感谢信",
		"在社交媒体上发布正能量内容",
		"倾听别人的故事",
	},
	ZoneOrganization: {
		"整理桌面，清理杂物",
		"制定明天的简单计划",
		"整理一个抽屉或柜子",
		"清理手机里的无用照片",
		"整理书架或衣柜",
		"制作一个待办清单",
		"清洁一个经常使用的物品",
		"整理数字文件夹",
		"断舍离一些不需要的物品",
		"规划下周的时间安排",
		"整理钱包或包包",
		"创建一个舒适的工作空间",
	},
	ZoneRest: {
		"什么都不做，发呆10分钟",
		"躺在床上听轻音乐",
		"看窗外的风景",
		"玩一个轻松的小游戏",
		"泡个脚，放松身心",
		"午睡20分钟",
		"慢慢品尝一杯茶",
		"看一些有趣的图片或表情包",
		"做一些简单的拼图",
		"在沙发上舒服地窝着",
		"看云朵或星星",
		"享受一个人的安静时光",
	},
}

// TaskTemplates returns a copy of the zone's task suggestions.
func TaskTemplates(z Zone) []string {
	src := taskTemplates[z]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// RandomTaskTemplate draws one template of the zone uniformly.
func RandomTaskTemplate(z Zone, r Rand) string {
	list := taskTemplates[z]
	if len(list) == 0 {
		return FallbackTaskTemplate
	}
	return list[r.IntN(len(list))]
}
