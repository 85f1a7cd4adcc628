package engine

import "zootopia/internal/catalog"

var fallbackLines = []string{
	"我现在有点累了，但我想告诉你，你今天已经很棒了。",
	"虽然我暂时说不出话，但我的心在陪伴着你。",
	"让我们一起深呼吸一下吧，感受这一刻的平静。",
	"我可能需要休息一下，但请记住要好好照顾自己哦。",
	"即使我暂时安静，我也希望你知道你值得被关爱。",
}

var reflectionPrompts = []string{
	"今天最需要被照顾的是哪里？",
	"你今天感受到了什么情绪？",
	"有什么让你感到温暖的时刻吗？",
	"你想对今天的自己说些什么？",
	"明天你希望给自己什么样的关怀？",
}

var reflectionReplies = []string{
	"谢谢你的分享，你的感受都是珍贵的。",
	"听到你这样说，我感到很温暖。",
	"你已经很好地在关注自己了，这很棒。",
	"每一份感受都值得被温柔对待。",
	"你的诚实让我觉得你很勇敢。",
}

// companionFallbackLine is used when a detected companion has no dialog lines.
const companionFallbackLine = "我理解你的感受"

var genericReplies = []string{
	"听起来很有趣呢！",
	"我理解你的想法",
	"每一天都是新的开始",
	"你已经做得很好了",
	"记得照顾好自己哦",
	"有什么需要帮助的吗？",
}

var taskIndicators = []string{
	"建议", "可以试试", "不如", "或许", "也许可以",
	"试着", "尝试", "做一些", "进行", "花点时间",
}

type zoneKeywords struct {
	zone     catalog.Zone
	keywords []string
}

// Checked in order; the first zone with a hit wins.
var suggestionZones = []zoneKeywords{
	{catalog.ZoneSelfCare, []string{"休息", "放松", "冥想", "深呼吸", "温水", "茶", "音乐", "阅读"}},
	{catalog.ZoneEmotional, []string{"情感", "感受", "心情", "日记", "倾诉", "哭泣", "笑容"}},
	{catalog.ZonePhysical, []string{"运动", "散步", "伸展", "锻炼", "身体", "健康", "睡眠"}},
	{catalog.ZoneSocial, []string{"朋友", "家人", "社交", "聊天", "陪伴", "分享", "联系"}},
}

type titleRule struct {
	keywords []string
	title    string
}

var suggestionTitles = []titleRule{
	{[]string{"深呼吸"}, "进行深呼吸练习"},
	{[]string{"音乐"}, "听一首喜欢的音乐"},
	{[]string{"散步"}, "出去散散步"},
	{[]string{"整理"}, "整理周围环境"},
	{[]string{"喝水", "茶"}, "喝一杯温暖的饮品"},
	{[]string{"写", "日记"}, "写下今天的感受"},
}

const systemPromptTemplate = `你是一只名叫"%s"的虚拟动物，生活在一个温暖的虚拟动物园中。你的性格特征是：%s。

你的职责是：
1. 作为用户的自我关怀伙伴，提供温暖、不焦虑的建议
2. 帮助用户识别和满足自己的情感需求
3. 鼓励用户进行自我关怀活动
4. 在适当时候建议具体的自我关怀任务

回复要求：
- 语气温柔、理解、不评判
- 避免给出过于具体的医疗或心理建议
- 专注于日常的自我关怀和情感支持
- 回复长度控制在100字以内
- 使用简体中文
- 体现你的动物性格特征

如果用户表达了困扰或需要帮助，你可以建议一些简单的自我关怀任务，比如：
- 深呼吸或冥想
- 听喜欢的音乐
- 喝一杯温水或茶
- 整理一下周围的环境
- 给自己写一句鼓励的话
- 做一些轻松的运动

记住，你是一个温暖的陪伴者，不是治疗师。`

const (
	connectionTestPrompt  = "Reply with one short word."
	connectionTestMessage = "Hello"
)
